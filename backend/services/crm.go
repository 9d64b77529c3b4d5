package services

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"project/backend/config"

	"github.com/gofiber/fiber/v2"
)

// ContactSync pushes newly registered users to an external CRM. It is a
// best-effort collaborator: callers log failures and never surface them to
// the registering user.
type ContactSync interface {
	NotifyNewContact(email string) error
}

// NewContactSync selects the Zoho client when credentials are configured and
// a console-only implementation otherwise.
func NewContactSync(cfg *config.Config, logger *log.Logger) ContactSync {
	if cfg.ZohoClientID != "" {
		return NewZohoContactSync(cfg)
	}
	return ConsoleContactSync{Logger: logger}
}

// ZohoContactSync creates a contact record in Zoho CRM. Each call exchanges
// the long-lived refresh token for an access token and inserts the contact.
type ZohoContactSync struct {
	cfg *config.Config
}

func NewZohoContactSync(cfg *config.Config) *ZohoContactSync {
	return &ZohoContactSync{cfg: cfg}
}

func (z *ZohoContactSync) NotifyNewContact(email string) error {
	accessToken, err := z.accessToken()
	if err != nil {
		return err
	}

	payload := fiber.Map{
		"data": []fiber.Map{{
			"Email":     email,
			"Last_Name": lastNameFromEmail(email),
		}},
	}

	agent := fiber.Post(z.cfg.ZohoAPIURL + "/crm/v2/Contacts")
	agent.Set("Authorization", "Zoho-oauthtoken "+accessToken)
	agent.JSON(payload)

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("create Zoho contact: %v", errs[0])
	}
	if code >= 300 {
		return fmt.Errorf("create Zoho contact: status %d: %s", code, body)
	}

	return nil
}

func (z *ZohoContactSync) accessToken() (string, error) {
	uri := fmt.Sprintf(
		"%s/oauth/v2/token?refresh_token=%s&client_id=%s&client_secret=%s&grant_type=refresh_token",
		z.cfg.ZohoAccountsURL, z.cfg.ZohoRefreshToken, z.cfg.ZohoClientID, z.cfg.ZohoClientSecret,
	)

	code, body, errs := fiber.Post(uri).Bytes()
	if len(errs) > 0 {
		return "", fmt.Errorf("Zoho token exchange: %v", errs[0])
	}
	if code >= 300 {
		return "", fmt.Errorf("Zoho token exchange: status %d: %s", code, body)
	}

	var token struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &token); err != nil {
		return "", fmt.Errorf("Zoho token exchange: %w", err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("Zoho token exchange: empty access token")
	}

	return token.AccessToken, nil
}

func lastNameFromEmail(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}

// ConsoleContactSync only logs new contacts. Used when no CRM is configured
// and in tests.
type ConsoleContactSync struct {
	Logger *log.Logger
}

func (s ConsoleContactSync) NotifyNewContact(email string) error {
	if s.Logger != nil {
		s.Logger.Printf("CRM sync disabled, new contact: %s", email)
	}
	return nil
}
