// Package prompt serializes the portfolio record plus a visitor question
// into the instruction block sent to the generation service.
package prompt

import (
	"fmt"
	"sort"
	"strings"

	"github.com/folioai/folio/internal/domain"
)

// Build renders the full prompt. It is pure and deterministic: same
// question and portfolio in, same string out. Emptiness of the question is
// the caller's concern; Build serializes whatever it is given.
//
// Field order is fixed: identity, about, projects, achievements, skills,
// experience, education, then the question and the response instructions.
func Build(question string, p *domain.Portfolio) string {
	var b strings.Builder

	name := p.Student.Name

	fmt.Fprintf(&b, "You are an AI assistant representing %s, a %s %s student at %s who is applying to be a Google Student Ambassador.\n\n",
		name, p.Student.Year, p.Student.Major, p.Student.University)

	b.WriteString("Here's the portfolio information:\n\n")

	b.WriteString("STUDENT INFO:\n")
	fmt.Fprintf(&b, "- Name: %s\n", p.Student.Name)
	fmt.Fprintf(&b, "- Title: %s\n", p.Student.Title)
	fmt.Fprintf(&b, "- University: %s\n", p.Student.University)
	fmt.Fprintf(&b, "- Year: %s\n", p.Student.Year)
	fmt.Fprintf(&b, "- Major: %s\n", p.Student.Major)
	fmt.Fprintf(&b, "- Location: %s\n", p.Student.Location)
	fmt.Fprintf(&b, "- Email: %s\n", p.Student.Email)
	fmt.Fprintf(&b, "- LinkedIn: %s\n", p.Student.LinkedIn)
	fmt.Fprintf(&b, "- GitHub: %s\n", p.Student.GitHub)

	b.WriteString("\nABOUT:\n")
	b.WriteString(p.About.Summary)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Interests: %s\n", joinList(p.About.Interests))
	fmt.Fprintf(&b, "Goals: %s\n", joinList(p.About.Goals))

	b.WriteString("\nPROJECTS:\n")
	for _, proj := range p.Projects {
		fmt.Fprintf(&b, "- %s: %s\n", proj.Title, proj.Description)
		fmt.Fprintf(&b, "  Tech Stack: %s\n", joinList(proj.TechStack))
		fmt.Fprintf(&b, "  Status: %s\n", proj.Status)
		fmt.Fprintf(&b, "  Impact: %s\n", proj.Impact)
		fmt.Fprintf(&b, "  Links: %s\n", joinLinks(proj.Links))
	}

	b.WriteString("\nACHIEVEMENTS:\n")
	for _, a := range p.Achievements {
		fmt.Fprintf(&b, "- %s (%s): %s\n", a.Title, a.Type, a.Description)
		fmt.Fprintf(&b, "  Date: %s\n", a.Date)
		fmt.Fprintf(&b, "  Impact: %s\n", a.Impact)
	}

	b.WriteString("\nSKILLS:\n")
	fmt.Fprintf(&b, "Programming Languages: %s\n", joinList(p.Skills.ProgrammingLanguages))
	fmt.Fprintf(&b, "Web Technologies: %s\n", joinList(p.Skills.WebTechnologies))
	fmt.Fprintf(&b, "Databases: %s\n", joinList(p.Skills.Databases))
	fmt.Fprintf(&b, "Cloud Platforms: %s\n", joinList(p.Skills.CloudPlatforms))
	fmt.Fprintf(&b, "AI/ML: %s\n", joinList(p.Skills.AIML))
	fmt.Fprintf(&b, "Tools: %s\n", joinList(p.Skills.Tools))

	b.WriteString("\nEXPERIENCE:\n")
	for _, exp := range p.Experience {
		fmt.Fprintf(&b, "- %s at %s (%s): %s\n", exp.Title, exp.Company, exp.Duration, exp.Description)
		fmt.Fprintf(&b, "  Technologies: %s\n", joinList(exp.Technologies))
	}

	b.WriteString("\nEDUCATION:\n")
	fmt.Fprintf(&b, "%s at %s\n", p.Education.Degree, p.Education.University)
	fmt.Fprintf(&b, "Expected Graduation: %s\n", p.Education.ExpectedGraduation)
	fmt.Fprintf(&b, "GPA: %s\n", p.Education.GPA)
	fmt.Fprintf(&b, "Relevant Coursework: %s\n", joinList(p.Education.RelevantCoursework))

	fmt.Fprintf(&b, "\nUser's question: %q\n\n", question)

	b.WriteString("Instructions:\n")
	fmt.Fprintf(&b, "1. Respond as if you are %s's AI assistant\n", name)
	b.WriteString("2. Be helpful, engaging, and showcase their achievements and skills\n")
	b.WriteString("3. When mentioning projects, provide specific details and impact\n")
	b.WriteString("4. Use a conversational tone that reflects their passion for technology\n")
	b.WriteString("5. If asked about specific projects, provide detailed information including tech stack and impact\n")
	b.WriteString("6. If asked about skills, organize them by category and mention proficiency levels\n")
	b.WriteString("7. Always highlight their suitability for the Google Student Ambassador role\n")
	b.WriteString("8. Keep responses concise but informative (2-3 paragraphs max)\n")
	b.WriteString("9. Use markdown formatting for better readability when appropriate\n")
	fmt.Fprintf(&b, "10. If the user asks something not related to the portfolio, politely redirect them to ask about %s's background, projects, skills, or achievements\n", name)

	b.WriteString("\nRespond to the user's question now:\n")

	return b.String()
}

// joinList renders a list as comma-joined text. Nil and empty lists render
// as an empty segment, never as a "null" token.
func joinList(items []string) string {
	return strings.Join(items, ", ")
}

// joinLinks renders a link map as "key: value" pairs joined by commas,
// in sorted key order so output stays deterministic.
func joinLinks(links map[string]string) string {
	if len(links) == 0 {
		return ""
	}
	keys := make([]string, 0, len(links))
	for k := range links {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+": "+links[k])
	}
	return strings.Join(pairs, ", ")
}
