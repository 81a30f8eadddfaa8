package sqlstore

// SQL shared by both dialects. Placeholders are written as "?" and rebound to
// "$n" for postgres.
const (
	queryProbeSchema = `SELECT 1 FROM source_files LIMIT 1`

	querySelectTrackedMTime = `
		SELECT mtime_unix_nano
		FROM source_files
		WHERE source_path = ?
	`

	queryDeleteSourceRows = `DELETE FROM source_rows WHERE source_path = ?`

	queryDeleteSourceFile = `DELETE FROM source_files WHERE source_path = ?`

	queryInsertSourceRow = `
		INSERT INTO source_rows (dataset_key, source_path, row_index, data)
		VALUES (?, ?, ?, ?)
	`

	// queryUpsertSourceFile records the mtime that the freshly inserted
	// rows were read at.
	queryUpsertSourceFile = `
		INSERT INTO source_files (
			source_path, dataset_key, mtime_unix_nano, row_count, ingest_id, ingested_at
		) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (source_path) DO UPDATE SET
			dataset_key     = excluded.dataset_key,
			mtime_unix_nano = excluded.mtime_unix_nano,
			row_count       = excluded.row_count,
			ingest_id       = excluded.ingest_id,
			ingested_at     = excluded.ingested_at
	`

	queryReadRecords = `
		SELECT source_path, row_index, data
		FROM source_rows
		WHERE dataset_key = ?
		ORDER BY source_path ASC, row_index ASC
	`

	queryTrackedSources = `
		SELECT source_path, dataset_key, mtime_unix_nano, row_count, ingest_id, ingested_at
		FROM source_files
		WHERE dataset_key = ?
		ORDER BY source_path ASC
	`
)
