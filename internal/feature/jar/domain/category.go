package domain

import (
	"sort"
	"strings"
	"time"

	"jar_backend/internal/feature/jar/domain/entity"
	"jar_backend/internal/shared/access"
)

// Category is the display grouping of an entry.
type Category string

const (
	CategoryParentGoodThing   Category = "parent-good-thing"
	CategoryParentGratitude   Category = "parent-gratitude"
	CategoryChildGratitudeDad Category = "child-gratitude-to-father"
	CategoryChildGratitudeMom Category = "child-gratitude-to-mother"
	CategoryBetterChoice      Category = "better-choice"
	CategoryFamilyEntry       Category = "family-entry"
)

// CategoryInfo is the fixed presentation of a category.
type CategoryInfo struct {
	Label       string
	Description string
	Icon        string
}

// Catalog resolves categories to their labels for one child name.
type Catalog struct {
	childName string
	info      map[Category]CategoryInfo
}

// NewCatalog builds the category catalog. An empty name becomes "Child".
func NewCatalog(childName string) *Catalog {
	name := strings.TrimSpace(childName)
	if name == "" {
		name = "Child"
	}
	return &Catalog{
		childName: name,
		info: map[Category]CategoryInfo{
			CategoryParentGoodThing: {
				Label:       "Good Thing",
				Description: "Celebrating something wonderful " + name + " did today.",
				Icon:        "🌟",
			},
			CategoryParentGratitude: {
				Label:       "Gratitude for " + name,
				Description: "A thankful note from a parent to " + name + ".",
				Icon:        "💚",
			},
			CategoryChildGratitudeDad: {
				Label:       name + " → Dad",
				Description: name + " shares gratitude for Dad.",
				Icon:        "👨‍👦",
			},
			CategoryChildGratitudeMom: {
				Label:       name + " → Mom",
				Description: name + " shares gratitude for Mom.",
				Icon:        "👩‍👦",
			},
			CategoryBetterChoice: {
				Label:       "Better Choice",
				Description: "A gentle learning moment for the family to reflect on.",
				Icon:        "🪄",
			},
			CategoryFamilyEntry: {
				Label:       "Family Entry",
				Description: "A note shared in the family jar.",
				Icon:        "🫙",
			},
		},
	}
}

// ChildName returns the name used in labels.
func (c *Catalog) ChildName() string { return c.childName }

// Info returns the presentation for cat, falling back to the family entry.
func (c *Catalog) Info(cat Category) CategoryInfo {
	if info, ok := c.info[cat]; ok {
		return info
	}
	return c.info[CategoryFamilyEntry]
}

// CategoryOf maps a stored entry type and metadata to its category.
// Unknown types or gratitude targets degrade to CategoryFamilyEntry.
func CategoryOf(t entity.EntryType, md entity.Metadata) Category {
	switch t {
	case entity.EntryGoodThing:
		return CategoryParentGoodThing
	case entity.EntryBetterChoice:
		return CategoryBetterChoice
	case entity.EntryGratitude:
		if strings.TrimSpace(md.Target) == "" {
			return CategoryParentGratitude
		}
		role, ok := access.Canonicalize(md.Target)
		if !ok {
			return CategoryFamilyEntry
		}
		switch role {
		case access.FamilyRoleDad:
			return CategoryChildGratitudeDad
		case access.FamilyRoleMom:
			return CategoryChildGratitudeMom
		default:
			return CategoryParentGratitude
		}
	}
	return CategoryFamilyEntry
}

// DisplayEntry is a primary entry prepared for the jar view.
type DisplayEntry struct {
	ID          string
	Type        entity.EntryType
	Category    Category
	Info        CategoryInfo
	Author      string
	Target      string
	Text        string
	Context     any
	Response    *string
	RespondedAt *time.Time
	Pending     bool
	CreatedAt   time.Time
}

// Categorize turns stored entries into display entries, newest first.
// Responses are folded into the better choice they answer and never shown
// on their own. pending holds the better choices still waiting for a
// response, in the same order.
func (c *Catalog) Categorize(entries []entity.JarEntry) (display, pending []DisplayEntry) {
	responses := make(map[string]entity.JarEntry)
	primary := make([]entity.JarEntry, 0, len(entries))
	for _, e := range entries {
		if ref := e.Meta().ResponseTo; ref != "" {
			// 同じ参照に複数あれば最初のものを採用
			if _, seen := responses[ref]; !seen {
				responses[ref] = e
			}
			continue
		}
		primary = append(primary, e)
	}

	display = make([]DisplayEntry, 0, len(primary))
	for _, e := range primary {
		md := e.Meta()
		cat := CategoryOf(e.EntryType, md)
		d := DisplayEntry{
			ID:        e.ID,
			Type:      e.EntryType,
			Category:  cat,
			Info:      c.Info(cat),
			Author:    c.displayName(md.Author),
			Target:    c.displayName(md.Target),
			Text:      e.Content,
			Context:   md.Context,
			CreatedAt: e.CreatedAt,
		}
		if d.Author == "" {
			d.Author = c.fallbackAuthor(cat)
		}
		if r, ok := responses[e.ID]; ok {
			text := r.Content
			at := r.CreatedAt
			d.Response = &text
			d.RespondedAt = &at
		} else if e.EntryType == entity.EntryBetterChoice {
			d.Pending = true
		}
		display = append(display, d)
	}

	sort.SliceStable(display, func(i, j int) bool {
		return display[i].CreatedAt.After(display[j].CreatedAt)
	})

	pending = make([]DisplayEntry, 0)
	for _, d := range display {
		if d.Pending {
			pending = append(pending, d)
		}
	}
	return display, pending
}

// Filter keeps the display entries of type t. An empty t keeps everything.
func Filter(display []DisplayEntry, t entity.EntryType) []DisplayEntry {
	if t == "" {
		return display
	}
	out := make([]DisplayEntry, 0, len(display))
	for _, d := range display {
		if d.Type == t {
			out = append(out, d)
		}
	}
	return out
}

func (c *Catalog) displayName(v string) string {
	if strings.TrimSpace(v) == "" {
		return ""
	}
	switch role, _ := access.Canonicalize(v); role {
	case access.FamilyRoleMom:
		return "Mom"
	case access.FamilyRoleDad:
		return "Dad"
	case access.FamilyRoleChild:
		return c.childName
	}
	return v
}

func (c *Catalog) fallbackAuthor(cat Category) string {
	switch cat {
	case CategoryParentGoodThing, CategoryParentGratitude, CategoryBetterChoice:
		return "Parent"
	case CategoryChildGratitudeDad, CategoryChildGratitudeMom:
		return c.childName
	}
	return "Family"
}
