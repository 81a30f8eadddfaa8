package aggregation

import (
	"crypto/sha256"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// OtherBranch collects managers missing from the branch table.
const OtherBranch = "other"

// BranchTable maps managers to the branch (team) they belong to.
// Loaded once at startup; read-only afterwards.
type BranchTable struct {
	byManager   map[string]string
	branches    []string
	Fingerprint string // SHA-256 of the source file; empty for in-code tables
}

// rawBranchFile is the on-disk YAML shape:
//
//	branches:
//	  - name: "서울지사"
//	    managers: ["김영수", "이민지"]
type rawBranchFile struct {
	Branches []Branch `yaml:"branches"`
}

// Branch is one row of the table.
type Branch struct {
	Name     string   `yaml:"name"`
	Managers []string `yaml:"managers"`
}

// NewBranchTable builds a table from branches, in order.
// A manager listed twice keeps its first branch.
func NewBranchTable(branches ...Branch) BranchTable {
	t := BranchTable{byManager: make(map[string]string)}
	for _, b := range branches {
		t.add(b.Name, b.Managers)
	}
	return t
}

func (t *BranchTable) add(branch string, managers []string) {
	if t.byManager == nil {
		t.byManager = make(map[string]string)
	}
	branch = strings.TrimSpace(branch)
	t.branches = append(t.branches, branch)
	for _, m := range managers {
		m = strings.TrimSpace(m)
		if m == "" {
			continue
		}
		if _, exists := t.byManager[m]; !exists {
			t.byManager[m] = branch
		}
	}
}

// Lookup returns the manager's branch, or OtherBranch.
func (t BranchTable) Lookup(manager string) string {
	if b, ok := t.byManager[manager]; ok {
		return b
	}
	return OtherBranch
}

// Branches lists the configured branch names in file order.
func (t BranchTable) Branches() []string {
	return append([]string(nil), t.branches...)
}

// LoadBranchTable reads a branch table from a YAML file. An empty path or a
// missing file yields an empty table, so every manager lands in OtherBranch.
func LoadBranchTable(path string) (BranchTable, error) {
	if strings.TrimSpace(path) == "" {
		return BranchTable{}, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return BranchTable{}, nil
	}
	if err != nil {
		return BranchTable{}, fmt.Errorf("reading branch table %s: %w", path, err)
	}

	var raw rawBranchFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return BranchTable{}, fmt.Errorf("parsing branch table %s: %w", path, err)
	}

	t := BranchTable{
		byManager:   make(map[string]string),
		Fingerprint: fmt.Sprintf("%x", sha256.Sum256(data)),
	}
	seen := make(map[string]bool, len(raw.Branches))
	for _, b := range raw.Branches {
		name := strings.TrimSpace(b.Name)
		if name == "" {
			return BranchTable{}, fmt.Errorf("branch table %s: branch name must not be empty", path)
		}
		if name == OtherBranch {
			return BranchTable{}, fmt.Errorf("branch table %s: %q is reserved", path, OtherBranch)
		}
		if seen[name] {
			return BranchTable{}, fmt.Errorf("branch table %s: duplicate branch %q", path, name)
		}
		seen[name] = true
		t.add(name, b.Managers)
	}
	return t, nil
}
