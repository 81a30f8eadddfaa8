package mocks

//go:generate mockery --name RecordStore --srcpkg github.com/aevon-lab/salesboard/internal/core/storage --output ./storage --outpkg storagemocks --with-expecter
//go:generate mockery --name RecordProvider --srcpkg github.com/aevon-lab/salesboard/internal/report --output ./report --outpkg reportmocks --with-expecter
