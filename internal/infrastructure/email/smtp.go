// Package email delivers operator and member notifications over SMTP.
package email

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/gomail.v2"

	"rdfstore/internal/application/storage/usecases"
	"rdfstore/internal/shared/config"
	"rdfstore/internal/shared/errors"
)

// SMTPNotificationSink sends notification email through an SMTP relay.
// Discrepancy reports and compensation alerts go to the admin list; access
// and expiry notices go to the affected member.
type SMTPNotificationSink struct {
	dialer      *gomail.Dialer
	fromAddress string
	adminList   []string
}

func NewSMTPNotificationSink(cfg *config.EmailConfig) *SMTPNotificationSink {
	return &SMTPNotificationSink{
		dialer:      gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		fromAddress: cfg.FromAddress,
		adminList:   cfg.AdminList,
	}
}

// SendDiscrepancyReport mails the outcome of one audit run to the admin
// list as a single batch.
func (s *SMTPNotificationSink) SendDiscrepancyReport(report usecases.AuditReport) error {
	if len(s.adminList) == 0 {
		return fmt.Errorf("no admin recipients configured")
	}

	subject := fmt.Sprintf("Membership audit: %d discrepancies, %d incomplete",
		len(report.Discrepancies), len(report.Incomplete))

	var b strings.Builder
	fmt.Fprintf(&b, "Membership audit run at %s audited %d allocations.\n\n",
		report.RunAt.Format(time.RFC1123), report.Audited)

	if len(report.Discrepancies) > 0 {
		b.WriteString("Discrepancies between the directory and the membership records:\n\n")
		for _, d := range report.Discrepancies {
			fmt.Fprintf(&b, "  allocation %d (%s)\n", d.AllocationID, d.GroupName)
			if len(d.DirectoryOnly) > 0 {
				fmt.Fprintf(&b, "    in directory but not in records: %s\n", strings.Join(d.DirectoryOnly, ", "))
			}
			if len(d.RecordsOnly) > 0 {
				fmt.Fprintf(&b, "    in records but not in directory: %s\n", strings.Join(d.RecordsOnly, ", "))
			}
		}
		b.WriteString("\n")
	}

	if len(report.Incomplete) > 0 {
		b.WriteString("Allocations the audit could not check:\n\n")
		for _, entry := range report.Incomplete {
			fmt.Fprintf(&b, "  allocation %d (%s): %s\n", entry.AllocationID, entry.GroupName, entry.Reason)
		}
		b.WriteString("\n")
	}

	b.WriteString("No automatic changes were made. Review and resolve manually.\n")

	return s.send(s.adminList, subject, b.String())
}

// SendCompensationAlert escalates a failed provisioning rollback to the
// admin list. The listed resources may need manual removal.
func (s *SMTPNotificationSink) SendCompensationAlert(failure *errors.CompensationFailureError) error {
	if len(s.adminList) == 0 {
		return fmt.Errorf("no admin recipients configured")
	}

	subject := "Storage provisioning rollback failed, manual cleanup required"
	body := fmt.Sprintf(
		"A storage provisioning run failed at step %q and its rollback also failed.\n\n"+
			"Original failure: %v\nRollback failure: %v\n\n"+
			"The following external resources may have been left behind:\n  %s\n\n"+
			"Remove them manually before the GID range fills with orphans.\n",
		failure.Step, failure.Cause, failure.CompErr,
		strings.Join(failure.Orphaned, "\n  "))

	return s.send(s.adminList, subject, body)
}

// SendAccessGranted tells a member they have been given access to a group.
func (s *SMTPNotificationSink) SendAccessGranted(email, username, groupName string) error {
	subject := fmt.Sprintf("Storage access granted: %s", groupName)
	body := fmt.Sprintf(
		"Hello %s,\n\n"+
			"You have been granted access to the research storage allocation %s.\n"+
			"The group membership can take up to an hour to propagate to all systems.\n",
		username, groupName)

	return s.send([]string{email}, subject, body)
}

// SendExpirationAlert warns a member their access is about to lapse.
func (s *SMTPNotificationSink) SendExpirationAlert(email, username, groupName string, expires time.Time) error {
	subject := fmt.Sprintf("Storage access expiring: %s", groupName)
	body := fmt.Sprintf(
		"Hello %s,\n\n"+
			"Your access to the research storage allocation %s expires on %s.\n"+
			"Ask the allocation owner to extend your membership if you still need it.\n",
		username, groupName, expires.Format("2 January 2006"))

	return s.send([]string{email}, subject, body)
}

func (s *SMTPNotificationSink) send(to []string, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.fromAddress)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
