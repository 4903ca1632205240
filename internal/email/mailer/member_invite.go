// internal/email/mailer/member_invite.go
package mailer

import "github.com/harborgate/tenancy/internal/email"

// MemberInviteTemplateData contains data for the membership notice template
type MemberInviteTemplateData struct {
	FirstName   string
	InviterName string
	AccountName string
	Role        string
	AccountLink string
}

// SendMemberInviteEmail notifies a user they were added to an account
func SendMemberInviteEmail(s *email.Service, to string, data MemberInviteTemplateData) error {
	emailData := email.EmailData{
		To:           to,
		FromName:     "Harborgate",
		Subject:      "You've been added to " + data.AccountName,
		TemplateName: "member_invite",
		TemplateData: data,
	}

	return s.SendEmail(emailData)
}
