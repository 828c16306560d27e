package mockapi

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/marketsupervisor/internal/client/models"
)

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	return nil
}

func (s *Server) companyLogin(c *fiber.Ctx) error {
	var creds models.Credentials
	if err := parseBody(c, &creds); err != nil {
		return err
	}
	u, ok := s.db.authenticateCompany(strings.TrimSpace(creds.Email), creds.Password)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid email or password")
	}
	token, err := s.issue(c, u)
	if err != nil {
		return err
	}
	s.logger.Info(c.UserContext(), "company logged in", "id", u.ID)
	return c.JSON(models.LoginResponse{Company: &u, AccessToken: token})
}

func (s *Server) adminLogin(c *fiber.Ctx) error {
	var creds models.Credentials
	if err := parseBody(c, &creds); err != nil {
		return err
	}
	u, ok := s.db.authenticateAdmin(strings.TrimSpace(creds.Email), creds.Password)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid email or password")
	}
	token, err := s.issue(c, u)
	if err != nil {
		return err
	}
	s.logger.Info(c.UserContext(), "admin logged in", "id", u.ID)
	return c.JSON(models.LoginResponse{User: &u, AccessToken: token})
}

// register creates a company account and logs it in.
func (s *Server) register(c *fiber.Ctx) error {
	var reg models.Registration
	if err := parseBody(c, &reg); err != nil {
		return err
	}
	reg.Name = strings.TrimSpace(reg.Name)
	reg.Email = strings.TrimSpace(reg.Email)
	if reg.Name == "" || reg.Email == "" || reg.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name, email and password are required")
	}

	s.db.mu.Lock()
	if s.db.emailTaken(reg.Email) {
		s.db.mu.Unlock()
		return fiber.NewError(fiber.StatusConflict, "email already registered")
	}
	company := models.Company{
		ID: s.db.nextID(), Name: reg.Name, Email: reg.Email, Country: reg.Country,
		Sector: reg.Sector, IsActive: true, CreatedAt: s.today(),
	}
	s.db.companies = append(s.db.companies, company)
	s.db.passwords[company.ID] = hashPassword(reg.Password)
	s.db.mu.Unlock()

	u := companyUser(company)
	token, err := s.issue(c, u)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(models.LoginResponse{Company: &u, AccessToken: token})
}

// forgotPassword answers the same way whether or not the email is known.
// The reset token is only written to the log.
func (s *Server) forgotPassword(c *fiber.Ctx) error {
	var body struct {
		Email string `json:"email"`
	}
	if err := parseBody(c, &body); err != nil {
		return err
	}
	email := strings.TrimSpace(body.Email)
	if email == "" {
		return fiber.NewError(fiber.StatusBadRequest, "email is required")
	}

	s.db.mu.Lock()
	for _, co := range s.db.companies {
		if co.Email == email {
			token := uuid.NewString()
			s.db.resetTokens[token] = co.ID
			s.logger.Info(c.UserContext(), "password reset requested", "company", co.ID, "reset_token", token)
			break
		}
	}
	s.db.mu.Unlock()

	return c.JSON(models.Message{Message: "if the account exists, a reset link has been sent"})
}

func (s *Server) resetPassword(c *fiber.Ctx) error {
	var body struct {
		Token       string `json:"token"`
		NewPassword string `json:"newPassword"`
	}
	if err := parseBody(c, &body); err != nil {
		return err
	}
	if body.NewPassword == "" {
		return fiber.NewError(fiber.StatusBadRequest, "new password is required")
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	id, ok := s.db.resetTokens[body.Token]
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "invalid or expired reset token")
	}
	delete(s.db.resetTokens, body.Token)
	s.db.passwords[id] = hashPassword(body.NewPassword)
	return c.JSON(models.Message{Message: "password updated"})
}

// logout revokes the presented token, if any. It never fails.
func (s *Server) logout(c *fiber.Ctx) error {
	if raw := bearer(c); raw != "" {
		s.db.revoke(raw)
	}
	return c.JSON(models.Message{Message: "logged out"})
}

func (s *Server) verify(c *fiber.Ctx) error {
	claims := principal(c)
	u, ok := s.db.principalUser(claims)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unknown principal")
	}
	if u.Role == RoleAdmin {
		return c.JSON(fiber.Map{"user": u})
	}
	return c.JSON(fiber.Map{"company": u})
}

// refresh revokes the current token and issues a new one.
func (s *Server) refresh(c *fiber.Ctx) error {
	claims := principal(c)
	u, ok := s.db.principalUser(claims)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unknown principal")
	}
	token, err := s.issue(c, u)
	if err != nil {
		return err
	}
	s.db.revoke(bearer(c))
	return c.JSON(models.TokenResponse{Token: token})
}
