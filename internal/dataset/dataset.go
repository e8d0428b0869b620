package dataset

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/spec-kit/sla-service/internal/domain"
)

// Dataset is an offline snapshot of policies and tickets. JSON files are
// accepted as well, since JSON is a subset of YAML.
type Dataset struct {
	Policies []domain.Policy `yaml:"policies" json:"policies"`
	Tickets  []domain.Ticket `yaml:"tickets" json:"tickets"`
}

// Load reads and parses the dataset at path.
func Load(path string) (*Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	ds, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// Parse decodes a dataset and rejects tickets without ids and duplicate ids
// or sector policies. Timestamp problems are left to the engine to report.
func Parse(raw []byte) (*Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(raw, &ds); err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}

	seen := make(map[string]struct{}, len(ds.Tickets))
	for i, t := range ds.Tickets {
		if t.ID == "" {
			return nil, fmt.Errorf("ticket #%d has no id", i)
		}
		if _, dup := seen[t.ID]; dup {
			return nil, fmt.Errorf("duplicate ticket id %q", t.ID)
		}
		seen[t.ID] = struct{}{}
	}

	sectors := make(map[string]struct{}, len(ds.Policies))
	for _, p := range ds.Policies {
		if _, dup := sectors[p.SectorID]; dup {
			return nil, fmt.Errorf("duplicate policy for sector %q", p.SectorID)
		}
		sectors[p.SectorID] = struct{}{}
	}
	return &ds, nil
}

// Select returns tickets created inside window, restricted to sectorID when set.
// A zero window selects every ticket.
func (d *Dataset) Select(window domain.Window, sectorID *string) []domain.Ticket {
	var out []domain.Ticket
	for _, t := range d.Tickets {
		if !window.IsZero() && !window.Contains(t.CreatedAt) {
			continue
		}
		if sectorID != nil && (t.SectorID == nil || *t.SectorID != *sectorID) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Ticket returns the ticket with id.
func (d *Dataset) Ticket(id string) (*domain.Ticket, bool) {
	for i := range d.Tickets {
		if d.Tickets[i].ID == id {
			t := d.Tickets[i]
			return &t, true
		}
	}
	return nil, false
}
