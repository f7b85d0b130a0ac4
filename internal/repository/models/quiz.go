package models

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// StringSlice stores a string array as a JSON document in a CLOB column.
type StringSlice []string

// Value implements the driver.Valuer interface.
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	jsonData, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	// go-ora binds CLOB columns from string, not []byte.
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface. NULL, empty and literal
// "null" column values all decode to an empty slice.
func (s *StringSlice) Scan(value interface{}) error {
	bytesToParse, err := clobBytes("StringSlice", value)
	if err != nil {
		return err
	}
	if bytesToParse == nil {
		*s = StringSlice{}
		return nil
	}
	return json.Unmarshal(bytesToParse, s)
}

// Question mirrors one quiz question inside the questions CLOB. The JSON
// field names are shared with the API payload.
type Question struct {
	Text        string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Difficulty  string   `json:"difficulty"`
	Explanation string   `json:"explanation"`
}

// QuestionSlice stores the generated questions as a JSON document in a
// CLOB column.
type QuestionSlice []Question

// Value implements the driver.Valuer interface.
func (q QuestionSlice) Value() (driver.Value, error) {
	if q == nil {
		return "[]", nil
	}
	jsonData, err := json.Marshal(q)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface.
func (q *QuestionSlice) Scan(value interface{}) error {
	bytesToParse, err := clobBytes("QuestionSlice", value)
	if err != nil {
		return err
	}
	if bytesToParse == nil {
		*q = QuestionSlice{}
		return nil
	}
	return json.Unmarshal(bytesToParse, q)
}

// Entities stores the named entities extracted from an article as a JSON
// document in a CLOB column.
type Entities struct {
	People        []string `json:"people"`
	Organizations []string `json:"organizations"`
	Locations     []string `json:"locations"`
}

// Value implements the driver.Valuer interface.
func (e Entities) Value() (driver.Value, error) {
	jsonData, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface.
func (e *Entities) Scan(value interface{}) error {
	bytesToParse, err := clobBytes("Entities", value)
	if err != nil {
		return err
	}
	if bytesToParse == nil {
		*e = Entities{}
		return nil
	}
	return json.Unmarshal(bytesToParse, e)
}

// clobBytes normalizes the raw column value the driver hands to Scan.
// A nil return means the column held no usable document.
func clobBytes(typeName string, value interface{}) ([]byte, error) {
	if value == nil {
		return nil, nil
	}

	var bytesToParse []byte
	switch v := value.(type) {
	case []byte:
		bytesToParse = v
	case string:
		bytesToParse = []byte(v)
	default:
		return nil, fmt.Errorf("%s Scan: unsupported type %T", typeName, value)
	}

	if len(bytesToParse) == 0 || string(bytesToParse) == "null" {
		return nil, nil
	}
	return bytesToParse, nil
}

// Quiz is the persistence model for one generated quiz. Collection
// columns are JSON CLOBs; summary is nullable because short articles can
// have no usable lead paragraph.
type Quiz struct {
	ID            string         `db:"id"`
	URL           string         `db:"url"`
	Title         string         `db:"title"`
	Summary       sql.NullString `db:"summary"`
	Sections      StringSlice    `db:"sections"`
	KeyEntities   Entities       `db:"key_entities"`
	Questions     QuestionSlice  `db:"questions"`
	RelatedTopics StringSlice    `db:"related_topics"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}
