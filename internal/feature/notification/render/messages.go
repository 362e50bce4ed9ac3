package render

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	jardomain "jar_backend/internal/feature/jar/domain"
	"jar_backend/internal/feature/jar/domain/entity"
)

// Email is a rendered message without recipients.
type Email struct {
	Subject string
	HTML    string
	Text    string
}

// Composer builds every email the jar sends.
type Composer struct {
	jarName string
	links   Links
}

// NewComposer returns a composer for jarName linking to clientAppURL.
func NewComposer(jarName, clientAppURL string) *Composer {
	return &Composer{jarName: jarName, links: NewLinks(clientAppURL)}
}

// Verification is the email sent after signup.
func (c *Composer) Verification(token string) Email {
	link := c.links.BuildURL("/verify-email", token)
	title := "Verify your email for " + c.jarName
	intro := []string{
		fmt.Sprintf("Welcome to %s!", c.jarName),
		"Please confirm your email address to start sharing reflections with your family.",
	}
	return Email{
		Subject: title,
		HTML: RenderDocument(Template{
			Title:       title,
			PreviewText: "Confirm your email address to finish setting up your account.",
			IntroLines:  intro,
			Action:      &Action{Label: "Verify email", URL: link},
			FooterLines: []string{
				"If you did not create this account you can safely ignore this message.",
				fmt.Sprintf("Sent from %s.", c.jarName),
			},
		}),
		Text: RenderText(append(append([]string{title}, intro...),
			"Verification link: "+link,
			"If you did not request this, ignore this email.")...),
	}
}

// PasswordReset is the email carrying a reset link.
func (c *Composer) PasswordReset(token string) Email {
	link := c.links.BuildURL("/reset-password", token)
	title := "Reset your password for " + c.jarName
	intro := []string{
		"A password reset was requested for your account.",
		"Use the button below to choose a new password. This link expires soon for your security.",
	}
	return Email{
		Subject: title,
		HTML: RenderDocument(Template{
			Title:       title,
			PreviewText: "Choose a new password to get back into your gratitude jar.",
			IntroLines:  intro,
			Action:      &Action{Label: "Reset password", URL: link},
			FooterLines: []string{"If you did not request a reset you can ignore this email."},
		}),
		Text: RenderText(append(append([]string{title}, intro...),
			"Reset link: "+link,
			"If you did not request this change, you can ignore this email.")...),
	}
}

// FamilyInvite is the invitation to join familyName.
func (c *Composer) FamilyInvite(token, familyName string) Email {
	link := c.links.BuildURL("/accept-invite", token)
	title := fmt.Sprintf("Join the %s family on %s", familyName, c.jarName)
	intro := []string{
		fmt.Sprintf("You've been invited to join the %s family on %s.", familyName, c.jarName),
		"Tap the button below to accept the invitation and finish setting up your account.",
	}
	return Email{
		Subject: fmt.Sprintf("You're invited to %s", c.jarName),
		HTML: RenderDocument(Template{
			Title:       title,
			PreviewText: "Accept your invitation to join the family gratitude jar.",
			IntroLines:  intro,
			Action:      &Action{Label: "Accept invitation", URL: link},
			FooterLines: []string{"This invitation link will expire for security reasons."},
		}),
		Text: RenderText(append(append([]string{title}, intro...), "Accept invitation: "+link)...),
	}
}

// EntryAlert describes a new entry for one recipient.
type EntryAlert struct {
	EntryType     entity.EntryType
	Content       string
	AuthorName    string
	RecipientName string
}

type alertCopy struct{ label, emoji string }

var alertCopies = map[entity.EntryType]alertCopy{
	entity.EntryGoodThing:    {"Good Thing", "🌟"},
	entity.EntryGratitude:    {"Gratitude", "💌"},
	entity.EntryBetterChoice: {"Better Choice Reflection", "🧠"},
}

// EntryAlert is the email sent to family members when an entry is added.
func (c *Composer) EntryAlert(a EntryAlert) Email {
	cp, ok := alertCopies[a.EntryType]
	if !ok {
		cp = alertCopy{"Jar Entry", "📝"}
	}
	greeting := "Hi there,"
	if a.RecipientName != "" {
		greeting = fmt.Sprintf("Hi %s,", a.RecipientName)
	}
	author := a.AuthorName
	if author == "" {
		author = fallbackAuthor
	}
	link := c.links.ClientURL("/app")
	added := fmt.Sprintf("%s just added a new %s to %s.", author, strings.ToLower(cp.label), c.jarName)
	content := template.HTML(fmt.Sprintf(
		`<div style="margin:12px 0 0;padding:20px;border-radius:16px;background:#f8fafc;font-size:16px;line-height:24px;color:#1f2937;">%s</div>`,
		EscapeHTML(a.Content),
	))

	return Email{
		Subject: fmt.Sprintf("%s New %s in %s", cp.emoji, cp.label, c.jarName),
		HTML: RenderDocument(Template{
			Title:       fmt.Sprintf("%s New %s from %s", cp.emoji, cp.label, author),
			PreviewText: fmt.Sprintf("%s added a new %s to the jar.", author, strings.ToLower(cp.label)),
			IntroLines:  []string{greeting, added},
			ContentHTML: content,
			Action:      &Action{Label: "Read it in the jar", URL: link},
			FooterLines: []string{"You receive these alerts because you are part of the family jar."},
		}),
		Text: RenderText(
			greeting,
			added,
			strings.TrimSpace("Entry:\n"+a.Content),
			"Read it in the jar: "+link,
		),
	}
}

// DailyReminder is the content of the daily reflection email.
type DailyReminder struct {
	FamilyName  string
	TriggeredBy string
	Entries     []PreviewEntry
	Date        time.Time
}

// DailyReminder renders today's entries with a nudge to add more.
func (c *Composer) DailyReminder(d DailyReminder) Email {
	heading := formatDay(d.Date) + " reflections"
	section := RenderEntriesPreview(d.Entries, "Today in "+c.jarName, ReminderPreviewLimit)
	link := c.links.ClientURL("/app")

	intro := make([]string, 0, 2)
	var footer, byLine string
	if d.TriggeredBy != "" {
		intro = append(intro, d.TriggeredBy+" nudged the family to reflect together today.")
		footer = fmt.Sprintf("Reminder sent by %s.", d.TriggeredBy)
		byLine = "Reminder sent by: " + d.TriggeredBy
	} else {
		intro = append(intro, fmt.Sprintf("Here's your reminder to pause and add to %s.", c.jarName))
	}
	if len(d.Entries) > 0 {
		intro = append(intro, "Take a look at what was added so far and consider sharing something new.")
	} else {
		intro = append(intro, "No entries yet - be the first to add a reflection today!")
	}

	return Email{
		Subject: d.FamilyName + " • Daily reflection",
		HTML: RenderDocument(Template{
			Title:       heading,
			PreviewText: "Today's moments from " + d.FamilyName,
			IntroLines:  intro,
			ContentHTML: section.HTML,
			Action:      &Action{Label: "Open the jar", URL: link},
			FooterLines: []string{footer, "You are receiving this email because you subscribed to daily reminders."},
		}),
		Text: RenderText(heading, section.Text, byLine, "Open the jar: "+link),
	}
}

// WeeklyReflection is the content of the weekly email. The summary section is
// rendered only when IncludeSummary is set.
type WeeklyReflection struct {
	FamilyName     string
	TriggeredBy    string
	Entries        []PreviewEntry
	Summary        []jardomain.TypeCount
	TotalEntries   int
	Range          Range
	IncludeSummary bool
}

// WeeklyReflection renders the week's highlights and optional counts.
func (c *Composer) WeeklyReflection(w WeeklyReflection) Email {
	title := w.FamilyName + " • Weekly reflection"
	entries := RenderEntriesPreview(w.Entries, "This week in the jar", ReminderPreviewLimit)
	var summary Section
	if w.IncludeSummary {
		summary = RenderSummary(w.Summary, w.TotalEntries, w.Range)
	}
	link := c.links.ClientURL("/app")

	intro := make([]string, 0, 2)
	var footer, byLine string
	if w.TriggeredBy != "" {
		intro = append(intro, w.TriggeredBy+" kicked off the weekly reflection.")
		footer = fmt.Sprintf("Reflection prompted by %s.", w.TriggeredBy)
		byLine = "Reflection prompted by: " + w.TriggeredBy
	} else {
		intro = append(intro, fmt.Sprintf("Here's your weekly reflection for %s.", c.jarName))
	}
	preview := fmt.Sprintf("Catch up on the %s family jar.", w.FamilyName)
	if n := w.TotalEntries; n > 0 {
		intro = append(intro, fmt.Sprintf("You captured %d meaningful %s this week. Take a look at a few highlights below.", n, plural(n, "moment")))
		preview = fmt.Sprintf("%d new %s from the %s family.", n, plural(n, "moment"), w.FamilyName)
	} else {
		intro = append(intro, "No entries were captured this week - consider planning a family reflection moment!")
	}

	return Email{
		Subject: title,
		HTML: RenderDocument(Template{
			Title:       title,
			PreviewText: preview,
			IntroLines:  intro,
			ContentHTML: entries.HTML + summary.HTML,
			Action:      &Action{Label: "Review the jar", URL: link},
			FooterLines: []string{footer, "You are receiving this email because you subscribed to weekly reflections."},
		}),
		Text: RenderText(title, entries.Text, summary.Text, byLine, "Review the jar: "+link),
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
