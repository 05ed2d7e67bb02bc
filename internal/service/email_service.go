package service

import (
	"artcase-backend/config"
	"artcase-backend/internal/model"
	"artcase-backend/internal/util"
	"fmt"
	"html"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/mail.v2"
)

// Mailer 业务通知邮件，发送均为异步且失败不影响调用方
type Mailer interface {
	SendOrderConfirmation(order *model.Order)
	SendAccountStatusNotice(user *model.User)
}

type EmailService struct {
	smtpHost string
	smtpPort int
	username string
	password string
	from     string
	enabled  bool
}

func NewEmailService(cfg config.Config) *EmailService {
	return &EmailService{
		smtpHost: cfg.SMTPHost,
		smtpPort: cfg.SMTPPort,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		from:     cfg.MailFrom,
		enabled:  cfg.MailEnabled(),
	}
}

func (s *EmailService) sendEmailAsync(to, subject, body string) {
	if !s.enabled {
		util.Logger.Debug("邮件未配置，跳过发送", zap.String("to", to), zap.String("subject", subject))
		return
	}
	go func() {
		if err := s.sendEmail(to, subject, body); err != nil {
			util.Logger.Error("异步发送邮件失败", zap.Error(err), zap.String("to", to))
		}
	}()
}

func (s *EmailService) sendEmail(to, subject, body string) error {
	util.Logger.Info("开始发送邮件",
		zap.String("to", to),
		zap.String("subject", subject))

	m := mail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := mail.NewDialer(s.smtpHost, s.smtpPort, s.username, s.password)
	d.Timeout = 20 * time.Second
	d.SSL = s.smtpPort == 465

	if err := d.DialAndSend(m); err != nil {
		util.Logger.Error("发送邮件失败", zap.Error(err))
		return fmt.Errorf("发送邮件失败: %w", err)
	}

	util.Logger.Info("邮件发送成功", zap.String("to", to))
	return nil
}

// SendOrderConfirmation 下单确认邮件
func (s *EmailService) SendOrderConfirmation(order *model.Order) {
	s.sendEmailAsync(order.Email, "Order Confirmation - "+order.OrderNumber, orderConfirmationBody(order))
}

func orderConfirmationBody(order *model.Order) string {
	var rows strings.Builder
	for _, item := range order.Items {
		fmt.Fprintf(&rows, "<tr><td>%s</td><td>%s</td><td>%s</td><td>%d</td><td>$%s</td></tr>",
			html.EscapeString(item.Name), html.EscapeString(item.Model), html.EscapeString(item.Type),
			item.Quantity, item.Subtotal().StringFixed(2))
	}

	return fmt.Sprintf(`
	<html>
	<body style="font-family: Arial, sans-serif; color: #333;">
		<h2>Thank you for your order, %s!</h2>
		<p>Your order <strong>%s</strong> has been received and is now <strong>%s</strong>.</p>
		<table cellpadding="6" style="border-collapse: collapse;">
			<tr><th>Product</th><th>Model</th><th>Type</th><th>Qty</th><th>Subtotal</th></tr>
			%s
		</table>
		<p><strong>Total: $%s</strong></p>
		<p>Shipping to: %s, %s, %s</p>
	</body>
	</html>`,
		html.EscapeString(order.FirstName), order.OrderNumber, order.Status, rows.String(),
		order.Total().StringFixed(2),
		html.EscapeString(order.Address), html.EscapeString(order.City), html.EscapeString(order.Country))
}

// SendAccountStatusNotice 账号状态变更通知
func (s *EmailService) SendAccountStatusNotice(user *model.User) {
	var text string
	switch user.Status {
	case model.UserStatusBanned:
		text = "Your account has been banned."
	case model.UserStatusSuspended:
		text = "Your account has been suspended."
		if user.SuspensionEndDate != nil {
			text = fmt.Sprintf("Your account has been suspended until %s.", user.SuspensionEndDate.Format("2006-01-02 15:04"))
		}
	default:
		text = "Your account has been reactivated. Welcome back!"
	}

	body := fmt.Sprintf(`
	<html>
	<body style="font-family: Arial, sans-serif; color: #333;">
		<p>Hi %s,</p>
		<p>%s</p>
		<p>If you believe this is a mistake, please reply to this e-mail.</p>
	</body>
	</html>`, html.EscapeString(user.Username), text)

	s.sendEmailAsync(user.Email, "Account Status Update", body)
}
