package digest

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/marketbrief/marketbrief/internal/model"
)

// Builder renders digests for one display timezone.
type Builder struct {
	zone         *time.Location
	sectionLimit int
}

// NewBuilder creates a Builder. sectionLimit bounds each section's rendered
// size in bytes, item lines only; the omitted-count marker sits outside the
// bound so truncation can never hide itself.
func NewBuilder(zone *time.Location, sectionLimit int) *Builder {
	if zone == nil {
		zone = time.UTC
	}
	return &Builder{zone: zone, sectionLimit: sectionLimit}
}

// Build groups events into the given categories, in order, and renders each
// section under the size bound. Categories render even when empty so the
// digest shape stays stable day over day.
func (b *Builder) Build(day time.Time, events []model.Event, categories []model.Category) model.Digest {
	sorted := make([]model.Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, z := sorted[i], sorted[j]
		if !a.TimestampUTC.Equal(z.TimestampUTC) {
			return a.TimestampUTC.Before(z.TimestampUTC)
		}
		if a.Category != z.Category {
			return a.Category < z.Category
		}
		// Same session anchor: largest companies first, as upstream did.
		if a.IsEarnings() && z.IsEarnings() {
			return a.MarketCap.GreaterThan(z.MarketCap)
		}
		return false
	})

	d := model.Digest{Day: day}
	for _, cat := range categories {
		d.Sections = append(d.Sections, b.buildSection(cat, sorted))
	}
	return d
}

// buildSection renders one category's events under the size bound.
func (b *Builder) buildSection(cat model.Category, sorted []model.Event) model.Section {
	section := model.Section{Name: cat.String()}

	var size int
	for i, e := range sorted {
		if e.Category != cat {
			continue
		}
		line := b.renderLine(e)
		cost := len(line)
		if len(section.Lines) > 0 {
			cost++ // joining newline
		}
		if b.sectionLimit > 0 && size+cost > b.sectionLimit {
			// Truncation stops at the last complete item: the rendered
			// section is always a contiguous prefix, and everything from
			// the first overflowing item on counts as omitted.
			for _, rest := range sorted[i:] {
				if rest.Category == cat {
					section.Omitted++
				}
			}
			break
		}
		section.Lines = append(section.Lines, line)
		size += cost
	}

	return section
}

// renderLine renders a single event. Display-timezone conversion happens
// here and nowhere else.
func (b *Builder) renderLine(e model.Event) string {
	if e.IsEarnings() {
		line := fmt.Sprintf("**%s** - %s", e.Symbol, e.Title)
		if !e.MarketCapKnown {
			line += " (cap n/a)"
		}
		return line
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s %s",
		e.TimestampUTC.In(b.zone).Format("15:04"),
		e.Title,
		strings.Repeat("★", e.Importance),
	)
	if e.PreviousText != "" {
		fmt.Fprintf(&sb, " 前值:%s", e.PreviousText)
	}
	if e.ForecastText != "" {
		fmt.Fprintf(&sb, " 预期:%s", e.ForecastText)
	}
	return sb.String()
}

// RenderSection produces the final text of a section, including the
// omitted-count marker when truncation happened.
func RenderSection(s model.Section) string {
	text := strings.Join(s.Lines, "\n")
	if s.Omitted > 0 {
		if text != "" {
			text += "\n"
		}
		text += fmt.Sprintf("...and %d more", s.Omitted)
	}
	return text
}
