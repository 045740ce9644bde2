package greenweb

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"k8s.io/klog/v2"
)

// Classifier tells whether a site is hosted on renewable energy
type Classifier interface {
	Check(ctx context.Context, url string) (bool, error)
}

const (
	// sqliteHeader opens every SQLite 3 database file
	sqliteHeader = "SQLite format 3\x00"
	// minDatasetSize is the length of the SQLite file header
	minDatasetSize = 100

	checkQuery = "SELECT EXISTS(SELECT 1 FROM greendomain WHERE url LIKE ?)"
)

// Service looks sites up in a local copy of the Green Web Foundation dataset
type Service struct {
	path string
	db   *sql.DB
}

// NewService opens the dataset at path read-only
func NewService(path string) (*Service, error) {
	if err := validateDataset(path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, &LookupError{Op: OpOpen, Path: path, Message: "cannot open dataset", Cause: err}
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &LookupError{Op: OpOpen, Path: path, Message: "cannot open dataset", Cause: err}
	}

	klog.V(2).InfoS("Opened green web dataset", "path", path)
	return &Service{path: path, db: db}, nil
}

// validateDataset checks that path is a regular file carrying the SQLite header
func validateDataset(path string) error {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return &LookupError{Op: OpOpen, Path: path, Message: "dataset is missing", Cause: err}
	}
	if info.Size() < minDatasetSize {
		return &LookupError{Op: OpOpen, Path: path, Message: "not a valid dataset file"}
	}

	f, err := os.Open(path)
	if err != nil {
		return &LookupError{Op: OpOpen, Path: path, Message: "dataset is unreadable", Cause: err}
	}
	defer f.Close()

	header := make([]byte, len(sqliteHeader))
	if _, err := io.ReadFull(f, header); err != nil {
		return &LookupError{Op: OpOpen, Path: path, Message: "dataset is unreadable", Cause: err}
	}
	if !bytes.Equal(header, []byte(sqliteHeader)) {
		return &LookupError{Op: OpOpen, Path: path, Message: "not a valid dataset file"}
	}
	return nil
}

// NormalizeSite strips the http:// or https:// scheme from url. Everything
// else, trailing slash included, takes part in the match.
func NormalizeSite(url string) string {
	site := strings.Replace(url, "http://", "", 1)
	return strings.Replace(site, "https://", "", 1)
}

// Check reports whether any dataset entry contains the normalized site
func (s *Service) Check(ctx context.Context, url string) (bool, error) {
	site := NormalizeSite(url)

	var found int
	err := s.db.QueryRowContext(ctx, checkQuery, "%"+site+"%").Scan(&found)
	if err != nil {
		return false, &LookupError{Op: OpQuery, Path: s.path, Message: fmt.Sprintf("lookup of %q failed", site), Cause: err}
	}

	klog.V(3).InfoS("Green web lookup", "site", site, "green", found == 1)
	return found == 1, nil
}

// Close releases the dataset handle
func (s *Service) Close() error {
	return s.db.Close()
}
