// Package dataset loads flat files of historical store/item demand observations.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"time"
)

// DateLayout is the expected calendar date format of the input file.
const DateLayout = "2006-01-02"

var (
	ErrMalformedHeader = errors.New("header must be date,store,item,sales")
	ErrFieldCount      = errors.New("row does not have 4 fields")
)

// ParseError reports a malformed input row along with its line number.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Observation is a single historical record of units sold for a store and
// item on a calendar date. Immutable once loaded.
type Observation struct {
	Date  time.Time `json:"date"`
	Store int       `json:"store"`
	Item  int       `json:"item"`
	Sales float64   `json:"sales"`
}

// Table holds all loaded observations in file order.
type Table []Observation

// Load reads a CSV file with the header date,store,item,sales into a Table.
func Load(path string) (Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open dataset, %w", err)
	}
	defer file.Close()
	return Read(file)
}

// Read parses observations from a CSV stream. Dates must be in YYYY-MM-DD,
// store and item must be positive integers, and sales must be a non-negative
// number. The first malformed row fails the load with a ParseError.
func Read(r io.Reader) (Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("unable to read header, %w", err)
	}
	if len(header) != 4 || header[0] != "date" || header[1] != "store" || header[2] != "item" || header[3] != "sales" {
		return nil, ErrMalformedHeader
	}

	var tbl Table
	line := 1
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, &ParseError{Line: line, Err: err}
		}

		obs, err := parseRecord(record)
		if err != nil {
			return nil, &ParseError{Line: line, Err: err}
		}
		tbl = append(tbl, obs)
	}
	return tbl, nil
}

func parseRecord(record []string) (Observation, error) {
	if len(record) != 4 {
		return Observation{}, fmt.Errorf("got %d fields, %w", len(record), ErrFieldCount)
	}

	date, err := time.Parse(DateLayout, record[0])
	if err != nil {
		return Observation{}, fmt.Errorf("unable to parse date %q, %w", record[0], err)
	}
	store, err := strconv.Atoi(record[1])
	if err != nil {
		return Observation{}, fmt.Errorf("unable to parse store %q, %w", record[1], err)
	}
	if store <= 0 {
		return Observation{}, fmt.Errorf("store must be a positive integer, got %d", store)
	}
	item, err := strconv.Atoi(record[2])
	if err != nil {
		return Observation{}, fmt.Errorf("unable to parse item %q, %w", record[2], err)
	}
	if item <= 0 {
		return Observation{}, fmt.Errorf("item must be a positive integer, got %d", item)
	}
	sales, err := strconv.ParseFloat(record[3], 64)
	if err != nil {
		return Observation{}, fmt.Errorf("unable to parse sales %q, %w", record[3], err)
	}
	if sales < 0 {
		return Observation{}, fmt.Errorf("sales must be non-negative, got %f", sales)
	}

	return Observation{
		Date:  date,
		Store: store,
		Item:  item,
		Sales: sales,
	}, nil
}

// Pairs returns every distinct (store, item) pair present in the table in
// ascending store then item order.
func (tbl Table) Pairs() [][2]int {
	seen := make(map[[2]int]struct{})
	var pairs [][2]int
	for _, obs := range tbl {
		key := [2]int{obs.Store, obs.Item}
		if _, exists := seen[key]; exists {
			continue
		}
		seen[key] = struct{}{}
		pairs = append(pairs, key)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i][0] != pairs[j][0] {
			return pairs[i][0] < pairs[j][0]
		}
		return pairs[i][1] < pairs[j][1]
	})
	return pairs
}
