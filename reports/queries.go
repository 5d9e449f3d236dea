package reports

const (
	allTimeStatsQuery = `SELECT affiliation, COUNT(*) AS count, MAX(date) AS last_download
FROM download_records
GROUP BY affiliation
ORDER BY count DESC, affiliation`

	windowStatsQuery = `SELECT affiliation, COUNT(*) AS count, MAX(date) AS last_download
FROM download_records
WHERE date BETWEEN ? AND ?
GROUP BY affiliation
ORDER BY count DESC, affiliation`

	peopleQuery = `SELECT id, name, email, affiliation, date
FROM download_records
ORDER BY date DESC, id DESC`

	insertRecordQuery = `INSERT INTO download_records (name, email, affiliation, date) VALUES (?, ?, ?, ?)`
)
