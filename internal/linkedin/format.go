package linkedin

import (
	"fmt"
	"strings"
)

// FormatProfile renders a profile as readable text for tool output.
func FormatProfile(p *Profile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", p.Name)
	if p.GivenName != "" || p.FamilyName != "" {
		fmt.Fprintf(&b, "Given name: %s\nFamily name: %s\n", p.GivenName, p.FamilyName)
	}
	if p.Email != "" {
		verified := "no"
		if p.EmailVerified {
			verified = "yes"
		}
		fmt.Fprintf(&b, "Email: %s (verified: %s)\n", p.Email, verified)
	}
	fmt.Fprintf(&b, "Member ID: %s\n", p.Sub)
	return b.String()
}

// FormatOrganization renders a company page as readable text.
func FormatOrganization(o *Organization) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Company: %s\n", o.LocalizedName)
	if o.VanityName != "" {
		fmt.Fprintf(&b, "Vanity name: %s\n", o.VanityName)
	}
	if o.LocalizedWebsite != "" {
		fmt.Fprintf(&b, "Website: %s\n", o.LocalizedWebsite)
	}
	if o.StaffCountRange != "" {
		fmt.Fprintf(&b, "Staff count: %s\n", strings.TrimPrefix(o.StaffCountRange, "SIZE_"))
	}
	if o.LocalizedDescription != "" {
		fmt.Fprintf(&b, "\n%s\n", o.LocalizedDescription)
	}
	return b.String()
}

// FormatShareStatistics renders engagement numbers as readable text.
func FormatShareStatistics(s *ShareStatistics) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Impressions: %d\n", s.ImpressionCount)
	fmt.Fprintf(&b, "Clicks: %d\n", s.ClickCount)
	fmt.Fprintf(&b, "Likes: %d\n", s.LikeCount)
	fmt.Fprintf(&b, "Comments: %d\n", s.CommentCount)
	fmt.Fprintf(&b, "Shares: %d\n", s.ShareCount)
	fmt.Fprintf(&b, "Engagement rate: %.2f%%\n", s.Engagement*100)
	return b.String()
}
