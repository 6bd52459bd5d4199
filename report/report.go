package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/viant/logosim/cluster"
	"github.com/viant/logosim/descriptor"
)

// Member is one logo of a group.
type Member struct {
	ID    string `json:"id"`
	URL   string `json:"url,omitempty"`
	Known bool   `json:"known"`
}

// Group is a rendered cluster.Group.
type Group struct {
	Label   int      `json:"label"`
	Noise   bool     `json:"noise,omitempty"`
	Members []Member `json:"members"`
}

// Report is the structured result for one descriptor family.
type Report struct {
	Family descriptor.Family `json:"family"`
	Groups []Group           `json:"groups"`
}

// Build resolves every member id against urls. Group and member order are
// preserved.
func Build(family descriptor.Family, groups []cluster.Group, urls map[string]string) Report {
	r := Report{Family: family, Groups: make([]Group, 0, len(groups))}
	for _, g := range groups {
		out := Group{Label: g.Label, Noise: g.Noise, Members: make([]Member, len(g.Members))}
		for i, id := range g.Members {
			url, ok := urls[id]
			out.Members[i] = Member{ID: id, URL: url, Known: ok && url != ""}
		}
		r.Groups = append(r.Groups, out)
	}
	return r
}

// Size returns the number of members across all groups.
func (r Report) Size() int {
	n := 0
	for _, g := range r.Groups {
		n += len(g.Members)
	}
	return n
}

// Clusters returns the number of non-noise groups.
func (r Report) Clusters() int {
	n := 0
	for _, g := range r.Groups {
		if !g.Noise {
			n++
		}
	}
	return n
}

// WriteText renders the report, one header line per group followed by one
// line per member.
func (r Report) WriteText(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Family %s: %d logos in %d clusters\n", r.Family, r.Size(), r.Clusters()); err != nil {
		return err
	}
	for _, g := range r.Groups {
		var err error
		if g.Noise {
			_, err = fmt.Fprintf(w, "Noise: %d logos\n", len(g.Members))
		} else {
			_, err = fmt.Fprintf(w, "Cluster %d: %d logos\n", g.Label, len(g.Members))
		}
		if err != nil {
			return err
		}
		for _, m := range g.Members {
			if m.Known {
				_, err = fmt.Fprintf(w, "- %s\n", m.URL)
			} else {
				_, err = fmt.Fprintf(w, "- %s (url unknown)\n", m.ID)
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteJSON renders the report as indented JSON.
func (r Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("report: encode %s: %w", r.Family, err)
	}
	return nil
}
