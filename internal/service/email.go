package service

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

type emailService struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewEmailService(host string, port int, username, password, from string) EmailService {
	return &emailService{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

func (s *emailService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.host, s.port, s.username, s.password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email via gomail: %w", err)
	}
	return nil
}

func (s *emailService) SendOfferReceived(ctx context.Context, to, renterName string, carID int64) error {
	body := fmt.Sprintf("Hello,\n\n%s made an offer on your car #%d.\n\nLog in to accept or reject it.\n\nThe Carshare Team", renterName, carID)
	return s.send(to, fmt.Sprintf("New offer on car #%d", carID), body)
}

func (s *emailService) SendOfferAccepted(ctx context.Context, to string, carID int64, amount uint64) error {
	body := fmt.Sprintf("Hello,\n\nYour offer on car #%d was accepted. %d tokens are held in escrow until the trip completes.\n\nThe Carshare Team", carID, amount)
	return s.send(to, fmt.Sprintf("Offer accepted for car #%d", carID), body)
}

func (s *emailService) SendOfferRejected(ctx context.Context, to string, carID int64) error {
	body := fmt.Sprintf("Hello,\n\nYour offer on car #%d was rejected by the owner.\n\nThe Carshare Team", carID)
	return s.send(to, fmt.Sprintf("Offer rejected for car #%d", carID), body)
}

func (s *emailService) SendTripCompleted(ctx context.Context, to, role string, carID int64, amount uint64) error {
	var body string
	switch role {
	case "owner":
		body = fmt.Sprintf("Hello,\n\nThe trip with your car #%d completed. %d tokens were credited to your balance.\n\nThe Carshare Team", carID, amount)
	default:
		body = fmt.Sprintf("Hello,\n\nYour trip with car #%d completed. %d tokens were settled from your escrow.\n\nThe Carshare Team", carID, amount)
	}
	return s.send(to, fmt.Sprintf("Trip completed for car #%d", carID), body)
}
