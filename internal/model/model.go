// Package model defines the record payload exchanged with the values endpoint.
package model

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

// Name is the first/last name pair of a record.
type Name struct {
	First string `json:"first" yaml:"first"`
	Last  string `json:"last" yaml:"last"`
}

// Friend is a reference to another person by id and name.
type Friend struct {
	ID   int    `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Record is one element of the values payload.
type Record struct {
	ID            string   `json:"_id" yaml:"_id"`
	Index         int      `json:"index" yaml:"index"`
	GUID          string   `json:"guid" yaml:"guid"`
	IsActive      bool     `json:"isActive" yaml:"isActive"`
	Balance       string   `json:"balance" yaml:"balance"`
	Picture       string   `json:"picture" yaml:"picture"`
	Age           int      `json:"age" yaml:"age"`
	EyeColor      string   `json:"eyeColor" yaml:"eyeColor"`
	Name          Name     `json:"name" yaml:"name"`
	Company       string   `json:"company" yaml:"company"`
	Email         string   `json:"email" yaml:"email"`
	Phone         string   `json:"phone" yaml:"phone"`
	Address       string   `json:"address" yaml:"address"`
	About         string   `json:"about" yaml:"about"`
	Registered    string   `json:"registered" yaml:"registered"`
	Latitude      string   `json:"latitude" yaml:"latitude"`
	Longitude     string   `json:"longitude" yaml:"longitude"`
	Tags          []string `json:"tags" yaml:"tags"`
	Range         []int    `json:"range" yaml:"range"`
	Friends       []Friend `json:"friends" yaml:"friends"`
	Greeting      string   `json:"greeting" yaml:"greeting"`
	FavoriteFruit string   `json:"favoriteFruit" yaml:"favoriteFruit"`
}

//go:embed testdata/values.json
var fixture []byte

// Fixture returns a copy of the embedded sample payload as raw JSON.
func Fixture() []byte {
	out := make([]byte, len(fixture))
	copy(out, fixture)
	return out
}

// FixtureRecords returns the embedded sample payload decoded into records.
func FixtureRecords() ([]Record, error) {
	var records []Record
	if err := json.Unmarshal(fixture, &records); err != nil {
		return nil, fmt.Errorf("decoding fixture: %w", err)
	}
	return records, nil
}
