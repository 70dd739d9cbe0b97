// Package tokenlist reads token lists from files in the common token-list layout:
//
//	{"name": "...", "tokens": [{"chainId": 1, "address": "0x...", "symbol": "...", "name": "...", "decimals": 18}]}
//
// Files ending in .yaml or .yml are read with the same field names.
package tokenlist

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/archon-research/stl/stl-lend/internal/domain/entity"
	"github.com/archon-research/stl/stl-lend/internal/ports/outbound"
)

var _ outbound.TokenSource = (*File)(nil)

type document struct {
	Name   string       `json:"name" yaml:"name"`
	Tokens []tokenEntry `json:"tokens" yaml:"tokens"`
}

type tokenEntry struct {
	ChainID  int64  `json:"chainId" yaml:"chainId"`
	Address  string `json:"address" yaml:"address"`
	Symbol   string `json:"symbol" yaml:"symbol"`
	Name     string `json:"name" yaml:"name"`
	Decimals int16  `json:"decimals" yaml:"decimals"`
}

// File is a token source backed by a token-list file. The file is re-read on every call.
type File struct {
	path    string
	chainID int64
}

// NewFile returns a source for the tokens in path that belong to chainID.
func NewFile(path string, chainID int64) *File {
	return &File{path: path, chainID: chainID}
}

// ListTokens reads the file and returns the entries for the configured chain, in file order.
func (f *File) ListTokens(_ context.Context) ([]entity.Token, error) {
	doc, err := Load(f.path)
	if err != nil {
		return nil, err
	}
	return doc.ForChain(f.chainID)
}

// List is a parsed token-list document.
type List struct {
	Name    string
	entries []tokenEntry
}

// Len returns the number of entries across all chains.
func (l *List) Len() int { return len(l.entries) }

// ForChain validates and returns the entries for chainID.
func (l *List) ForChain(chainID int64) ([]entity.Token, error) {
	tokens := make([]entity.Token, 0, len(l.entries))
	for i, e := range l.entries {
		if e.ChainID != chainID {
			continue
		}
		t, err := entity.NewToken(e.ChainID, e.Address, e.Symbol, e.Decimals)
		if err != nil {
			return nil, fmt.Errorf("token list %q entry %d: %w", l.Name, i, err)
		}
		t.Name = e.Name
		tokens = append(tokens, *t)
	}
	return tokens, nil
}

// Load parses the token list at path.
func Load(path string) (*List, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading token list: %w", err)
	}
	return Parse(data, strings.ToLower(filepath.Ext(path)))
}

// Parse decodes a token list. ext selects YAML for ".yaml"/".yml"; anything else is JSON.
func Parse(data []byte, ext string) (*List, error) {
	var doc document
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing token list: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing token list: %w", err)
		}
	}
	return &List{Name: doc.Name, entries: doc.Tokens}, nil
}
