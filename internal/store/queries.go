package store

import "fmt"

// SQL shared by both dialects. The %[n]s verbs are replaced with the
// dialect's positional placeholders by render.

// Generation queries.
const (
	queryInsertGeneration = `
		INSERT INTO generations (
			user_id, platform, language, product_name, features,
			title, short_description, bullets_json, created_at
		) VALUES (%[1]s, %[2]s, %[3]s, %[4]s, %[5]s, %[6]s, %[7]s, %[8]s, %[9]s)`

	queryGetGeneration = `SELECT ` + generationColumns + `
		FROM generations
		WHERE id = %[1]s`
)

// Retention queries.
const (
	queryPruneHistory = `
		DELETE FROM generations
		WHERE user_id = %[1]s
		  AND id NOT IN (
			SELECT id FROM generations
			WHERE user_id = %[1]s
			ORDER BY created_at DESC, id DESC
			LIMIT %[2]s
		  )`

	queryPruneOlderThan = `DELETE FROM generations WHERE created_at < %[1]s`
)

// Stats queries.
const (
	queryStatsOverview = `
		SELECT COUNT(*), COUNT(DISTINCT user_id), MAX(created_at)
		FROM generations`

	queryPerUserCounts = `
		SELECT user_id, COUNT(*), MIN(created_at), MAX(created_at)
		FROM generations
		GROUP BY user_id
		ORDER BY COUNT(*) DESC, user_id
		LIMIT %[1]s`
)

// statements holds the queries rendered for one dialect.
type statements struct {
	insertGeneration string
	getGeneration    string
	pruneHistory     string
	pruneOlderThan   string
	statsOverview    string
	perUserCounts    string
}

func render(d dialect) statements {
	p := make([]any, 9)
	for i := range p {
		p[i] = d.placeholder(i + 1)
	}
	return statements{
		insertGeneration: fmt.Sprintf(queryInsertGeneration, p...),
		getGeneration:    fmt.Sprintf(queryGetGeneration, p[0]),
		pruneHistory:     fmt.Sprintf(queryPruneHistory, p[0], p[1]),
		pruneOlderThan:   fmt.Sprintf(queryPruneOlderThan, p[0]),
		statsOverview:    queryStatsOverview,
		perUserCounts:    fmt.Sprintf(queryPerUserCounts, p[0]),
	}
}
