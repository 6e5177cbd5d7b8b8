package auth

import (
	"errors"

	"go-docflow/internal/common/apperr"

	"github.com/gofiber/fiber/v2"
)

type AuthController struct {
	AuthService AuthService
}

func NewAuthController(authService AuthService) *AuthController {
	return &AuthController{
		AuthService: authService,
	}
}

type TokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type TokenResponse struct {
	Token      string `json:"token"`
	Username   string `json:"username"`
	Department string `json:"department"`
	BranchID   string `json:"branchId"`
	Role       string `json:"role"`
}

// Token godoc
// @Summary      Issue a session token
// @Description  Verify username and password against the organization directory
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body TokenRequest true "Credentials"
// @Success      200  {object} TokenResponse
// @Failure      400  {object} map[string]string
// @Failure      401  {object} map[string]string
// @Router       /api/v1/auth/token [post]
func (ctrl *AuthController) Token(c *fiber.Ctx) error {
	var req TokenRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	token, s, err := ctrl.AuthService.Login(c.UserContext(), req.Username, req.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Invalid username or password",
		})
	}
	if err != nil {
		return apperr.Respond(c, err)
	}

	return c.JSON(TokenResponse{
		Token:      token,
		Username:   s.Username,
		Department: s.Department,
		BranchID:   s.BranchID,
		Role:       s.Role,
	})
}
