package schema

// DDL creates the enterprise registry tables.
const DDL = `
CREATE TABLE IF NOT EXISTS enterprises (
	id              TEXT    PRIMARY KEY,
	cif             TEXT    NOT NULL UNIQUE,
	phone           TEXT    NOT NULL,
	enterprise_name TEXT    NOT NULL,
	registered_at   INTEGER NOT NULL
);
`
