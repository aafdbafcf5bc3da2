package magic

import (
	"fmt"
	"strconv"
	"strings"
)

// Setting keys, shared with the config file and %config.
const (
	KeyDisplayCon      = "display_con"
	KeyShortErrors     = "short_errors"
	KeyColumnLocalVars = "column_local_vars"
	KeyFeedback        = "feedback"
)

// Settings change how %flux reports and returns results.
type Settings struct {
	// DisplayCon prints the connection list when no connection is named.
	DisplayCon bool
	// ShortErrors prints query errors instead of returning them.
	ShortErrors bool
	// ColumnLocalVars stores each result column as its own variable.
	ColumnLocalVars bool
	// Feedback prints row count notices.
	Feedback bool
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{DisplayCon: true, ShortErrors: true, Feedback: true}
}

func (s *Settings) field(key string) (*bool, error) {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(key), "-", "_")) {
	case KeyDisplayCon, "displaycon":
		return &s.DisplayCon, nil
	case KeyShortErrors:
		return &s.ShortErrors, nil
	case KeyColumnLocalVars:
		return &s.ColumnLocalVars, nil
	case KeyFeedback:
		return &s.Feedback, nil
	}
	return nil, fmt.Errorf("unknown setting %q (known: %s)", key, strings.Join(SettingKeys(), ", "))
}

// Set changes one setting from its textual form, e.g. Set("feedback", "false").
func (s *Settings) Set(key, value string) error {
	f, err := s.field(key)
	if err != nil {
		return err
	}
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("setting %s expects true or false, got %q", key, value)
	}
	*f = b
	return nil
}

// SettingKeys lists the keys accepted by Set.
func SettingKeys() []string {
	return []string{KeyColumnLocalVars, KeyDisplayCon, KeyFeedback, KeyShortErrors}
}

func (s Settings) String() string {
	return fmt.Sprintf("%s = %t\n%s = %t\n%s = %t\n%s = %t",
		KeyColumnLocalVars, s.ColumnLocalVars,
		KeyDisplayCon, s.DisplayCon,
		KeyFeedback, s.Feedback,
		KeyShortErrors, s.ShortErrors)
}
