package sqlite

type migration struct {
	version int
	sql     string
}

// migrations はエンジンのスキーマ定義です。version は 1 から連番である必要があります。
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS process_instances (
	id           TEXT PRIMARY KEY,
	process_key  TEXT NOT NULL,
	status       TEXT NOT NULL DEFAULT 'ACTIVE',
	variables    TEXT NOT NULL DEFAULT '{}',
	started_at   DATETIME NOT NULL,
	completed_at DATETIME
);

CREATE TABLE IF NOT EXISTS tasks (
	id                  TEXT PRIMARY KEY,
	process_instance_id TEXT NOT NULL REFERENCES process_instances(id) ON DELETE CASCADE,
	name                TEXT NOT NULL,
	status              TEXT NOT NULL DEFAULT 'OPEN',
	variables           TEXT NOT NULL DEFAULT '{}',
	created_at          DATETIME NOT NULL,
	completed_at        DATETIME
);

CREATE INDEX IF NOT EXISTS idx_tasks_process ON tasks(process_instance_id);
CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
