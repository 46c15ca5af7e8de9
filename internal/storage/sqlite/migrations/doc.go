// Package migrations embeds the SQL schema history for the SQLite journal.
package migrations
