package config

const (
	// DefaultDatabasePath is the default path for the catalog database.
	DefaultDatabasePath = "./homeshelf.db"

	// DefaultSessionMaxAgeDays is the default session cookie lifetime.
	DefaultSessionMaxAgeDays = 14

	// DefaultISBNBaseURL is the ISBN metadata service endpoint.
	DefaultISBNBaseURL = "https://data.isbn.work"
)
