package config

import (
	"os"
	"path/filepath"

	"github.com/Veraticus/the-books-must-balance/internal/sheets"
	"github.com/spf13/viper"
)

// LoadSheetsConfig loads Google Sheets settings. Values under sheets.* in v
// win; GOOGLE_SHEETS_* environment variables fill the gaps.
func LoadSheetsConfig(v *viper.Viper) (*sheets.Config, error) {
	config := sheets.DefaultConfig()

	config.ServiceAccountPath = ExpandPath(firstSet(v.GetString("sheets.service_account_path"), os.Getenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH")))
	config.ClientID = firstSet(v.GetString("sheets.client_id"), os.Getenv("GOOGLE_SHEETS_CLIENT_ID"))
	config.ClientSecret = firstSet(v.GetString("sheets.client_secret"), os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET"))
	config.RefreshToken = firstSet(v.GetString("sheets.refresh_token"), os.Getenv("GOOGLE_SHEETS_REFRESH_TOKEN"))
	config.SpreadsheetID = firstSet(v.GetString("sheets.spreadsheet_id"), os.Getenv("GOOGLE_SHEETS_SPREADSHEET_ID"))
	config.SpreadsheetName = firstSet(v.GetString("sheets.spreadsheet_name"), os.Getenv("GOOGLE_SHEETS_SPREADSHEET_NAME"), config.SpreadsheetName)
	config.TimeZone = firstSet(v.GetString("sheets.time_zone"), config.TimeZone)

	// OAuth users without a refresh token fall back to the saved login token.
	if config.ClientID != "" && config.ClientSecret != "" && config.RefreshToken == "" {
		config.TokenFile = ExpandPath(firstSet(v.GetString("sheets.token_file"), filepath.Join(DefaultConfigDir(), "sheets-token.json")))
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func firstSet(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
