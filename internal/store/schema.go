package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS sessions (
    session_id           TEXT PRIMARY KEY,
    next_id              INTEGER NOT NULL DEFAULT 1,
    created_at           TEXT NOT NULL,
    touched_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS loans (
    session_id           TEXT NOT NULL REFERENCES sessions(session_id) ON DELETE CASCADE,
    id                   INTEGER NOT NULL,
    name                 TEXT NOT NULL,
    principal            REAL NOT NULL,
    annual_rate          REAL NOT NULL,
    term_years           INTEGER NOT NULL,
    frequency            TEXT NOT NULL,
    start_date           TEXT NOT NULL,
    home_price           REAL,
    down_payment         REAL,
    PRIMARY KEY (session_id, id)
);

CREATE TABLE IF NOT EXISTS streams (
    session_id           TEXT NOT NULL REFERENCES sessions(session_id) ON DELETE CASCADE,
    id                   INTEGER NOT NULL,
    name                 TEXT NOT NULL,
    monthly_income       REAL NOT NULL,
    growth_kind          INTEGER NOT NULL,
    growth_rate          REAL NOT NULL,
    years                INTEGER NOT NULL,
    start_month          TEXT NOT NULL,
    PRIMARY KEY (session_id, id)
);

CREATE INDEX IF NOT EXISTS idx_sessions_touched ON sessions(touched_at);
`
