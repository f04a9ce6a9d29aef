package dispatch

import (
	"fmt"
	"strings"

	"github.com/neo1908/cv-terminal/internal/cache"
	"github.com/neo1908/cv-terminal/internal/cv"
)

const (
	openEndedPeriod = "Present"

	workIndent = "    "
)

func formatHelp() string {
	rows := make([]string, 0, len(commandTable))
	for _, info := range commandTable {
		names := strings.Join(append([]string{info.name}, info.aliases...), ", ")
		rows = append(rows, fmt.Sprintf("%-18s%s", names, info.description))
	}

	return box("AVAILABLE COMMANDS", rows) + "\n\n" +
		"Usage: Type any command and press Enter to explore the CV.\n" +
		"Tip: Names are case-insensitive and extra arguments are ignored."
}

func formatInfo(doc *cv.Document) string {
	b := doc.Basics
	loc := joinNonEmpty(", ", b.Location.City, b.Location.Region, b.Location.CountryCode)

	out := box("PERSONAL INFORMATION", []string{
		fmt.Sprintf("%-14s%s", "Name:", b.Name),
		fmt.Sprintf("%-14s%s", "Title:", b.Label),
		fmt.Sprintf("%-14s%s", "Location:", loc),
		fmt.Sprintf("%-14s%s", "Email:", b.Email),
	})
	if summary := strings.TrimSpace(b.Summary); summary != "" {
		out += "\n\nPROFESSIONAL SUMMARY\n" + summary
	}
	return out
}

func formatWhoami(doc *cv.Document) string {
	if doc.Basics.Label == "" {
		return doc.Basics.Name
	}
	return fmt.Sprintf("%s (%s)", doc.Basics.Name, doc.Basics.Label)
}

func period(start, end string) string {
	if strings.TrimSpace(end) == "" {
		end = openEndedPeriod
	}
	return start + " - " + end
}

// formatWork is boxed like info and help. Details sit under the position,
// indented by workIndent, with one blank row after each entry.
func formatWork(doc *cv.Document) string {
	var rows []string
	for _, job := range doc.Work {
		rows = append(rows,
			job.Position,
			workIndent+job.Company,
			workIndent+period(job.StartDate, job.EndDate),
			"",
		)
		if len(job.Highlights) > 0 {
			rows = append(rows, workIndent+"Key Achievements:")
			for _, l := range bullets(job.Highlights) {
				rows = append(rows, workIndent+l)
			}
			rows = append(rows, "")
		}
	}
	// box pads the bottom itself.
	if n := len(rows); n > 0 && rows[n-1] == "" {
		rows = rows[:n-1]
	}
	return box("WORK EXPERIENCE", rows)
}

func formatEducation(doc *cv.Document) string {
	blocks := make([]string, 0, len(doc.Education))
	for _, edu := range doc.Education {
		title := edu.StudyType
		if edu.Area != "" {
			title = joinNonEmpty(" in ", edu.StudyType, edu.Area)
		}
		lines := []string{
			title,
			edu.Institution,
			period(edu.StartDate, edu.EndDate),
		}
		if len(edu.Courses) > 0 {
			lines = append(lines, "Courses:")
			lines = append(lines, bullets(edu.Courses)...)
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	return section("Education:", blocks)
}

func formatSkills(doc *cv.Document) string {
	blocks := make([]string, 0, len(doc.Skills))
	for _, group := range doc.Skills {
		heading := group.Name
		if group.Level != "" {
			heading = fmt.Sprintf("%s (%s)", group.Name, group.Level)
		}
		lines := append([]string{heading}, bullets(group.Keywords)...)
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	return section("Technical Skills:", blocks)
}

func formatProjects(doc *cv.Document) string {
	blocks := make([]string, 0, len(doc.Projects))
	for _, p := range doc.Projects {
		lines := []string{p.Name}
		if p.Description != "" {
			lines = append(lines, p.Description)
		}
		if p.URL != "" {
			lines = append(lines, "URL: "+p.URL)
		}
		if len(p.Highlights) > 0 {
			lines = append(lines, "Highlights:")
			lines = append(lines, bullets(p.Highlights)...)
		}
		if len(p.Keywords) > 0 {
			lines = append(lines, "Technologies:")
			lines = append(lines, bullets(p.Keywords)...)
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	return section("Projects:", blocks)
}

func formatLanguages(doc *cv.Document) string {
	blocks := make([]string, 0, len(doc.Languages))
	for _, l := range doc.Languages {
		blocks = append(blocks, fmt.Sprintf("%s: %s", l.Language, l.Fluency))
	}
	return section("Languages:", blocks)
}

func formatInterests(doc *cv.Document) string {
	blocks := make([]string, 0, len(doc.Interests))
	for _, in := range doc.Interests {
		lines := append([]string{in.Name}, bullets(in.Keywords)...)
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	return section("Personal Interests:", blocks)
}

func formatContact(doc *cv.Document) string {
	b := doc.Basics
	out := "Contact Information:\n\n" +
		"Email: " + b.Email + "\n" +
		"Location: " + joinNonEmpty(", ", b.Location.City, b.Location.Region)

	if len(b.Profiles) > 0 {
		lines := make([]string, 0, len(b.Profiles))
		for _, p := range b.Profiles {
			lines = append(lines, fmt.Sprintf("%s: %s", p.Network, p.URL))
		}
		out += "\n\nSocial Profiles:\n" + strings.Join(lines, "\n")
	}
	return out
}

// formatCache reports whole minutes. Expires in is floor(ttl) - floor(age) and
// is printed as-is when negative.
func formatCache(st cache.Status) string {
	ttl := floorMinutes(st.TTL)
	if !st.Cached {
		return fmt.Sprintf("Cache Status:\n\nStatus: No cache\nTTL: %d minutes", ttl)
	}

	age := floorMinutes(st.Age)
	return fmt.Sprintf("Cache Status:\n\nStatus: Cached\nAge: %d minutes\nTTL: %d minutes\nExpires in: %d minutes",
		age, ttl, ttl-age)
}
