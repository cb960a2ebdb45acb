package database

const schema = `
CREATE TABLE manga (
	mal_id              INTEGER PRIMARY KEY,
	title               TEXT NOT NULL,
	type                TEXT NOT NULL,
	chapters            INTEGER NOT NULL DEFAULT 0,
	volumes             INTEGER NOT NULL DEFAULT 0,
	status              TEXT NOT NULL,
	url                 TEXT NOT NULL DEFAULT '',
	progress            TEXT NOT NULL DEFAULT '',
	chapters_read       INTEGER NOT NULL DEFAULT 0,
	volumes_read        INTEGER NOT NULL DEFAULT 0,
	rating              INTEGER NOT NULL DEFAULT 0,
	digital_collection  BOOLEAN NOT NULL DEFAULT 0,
	physical_collection BOOLEAN NOT NULL DEFAULT 0,
	volumes_available   INTEGER NOT NULL DEFAULT 0,
	volumes_owned       INTEGER NOT NULL DEFAULT 0,
	volumes_edition     TEXT NOT NULL DEFAULT '',
	created_at          TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at          TIMESTAMP NOT NULL
);

CREATE INDEX idx_manga_status ON manga(status);
CREATE INDEX idx_manga_progress ON manga(progress);

CREATE TABLE authors (
	mal_id     INTEGER PRIMARY KEY,
	name       TEXT NOT NULL,
	url        TEXT NOT NULL DEFAULT '',
	updated_at TIMESTAMP NOT NULL
);

-- authors embedded per entry, ordered; name/url are a snapshot taken on import
CREATE TABLE manga_authors (
	manga_id  INTEGER NOT NULL,
	author_id INTEGER NOT NULL,
	position  INTEGER NOT NULL,
	name      TEXT NOT NULL,
	url       TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (manga_id, author_id),
	FOREIGN KEY (manga_id) REFERENCES manga(mal_id) ON DELETE CASCADE
);

CREATE INDEX idx_manga_authors_name ON manga_authors(name);

CREATE TABLE manga_genres (
	manga_id INTEGER NOT NULL,
	genre    TEXT NOT NULL,
	position INTEGER NOT NULL,
	PRIMARY KEY (manga_id, genre),
	FOREIGN KEY (manga_id) REFERENCES manga(mal_id) ON DELETE CASCADE
);

CREATE INDEX idx_manga_genres_genre ON manga_genres(genre);

CREATE TABLE manga_volumes (
	manga_id INTEGER NOT NULL,
	position INTEGER NOT NULL,
	volume   INTEGER NOT NULL,
	PRIMARY KEY (manga_id, position),
	FOREIGN KEY (manga_id) REFERENCES manga(mal_id) ON DELETE CASCADE
);
`

// migrations contains incremental schema changes.
// Each migration is applied in order based on the current user_version;
// migrations[0] is empty because version 0 uses the base schema.
var migrations = []string{
	"",
}
