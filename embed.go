package tenancy

import "embed"

// EmailFS holds the embedded email template groups under templates/emails.
//
//go:embed templates/emails
var EmailFS embed.FS
