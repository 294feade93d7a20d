package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ombhut175/ai-chatbot-platform-sub001/internal/handler/middleware"
	"github.com/ombhut175/ai-chatbot-platform-sub001/internal/handler/response"
	"github.com/ombhut175/ai-chatbot-platform-sub001/internal/service"
	"github.com/ombhut175/ai-chatbot-platform-sub001/pkg/validator"
)

type CompanyHandler struct {
	tenantService *service.TenantService
	validator     *validator.Validator
}

func NewCompanyHandler(tenantService *service.TenantService, validator *validator.Validator) *CompanyHandler {
	return &CompanyHandler{
		tenantService: tenantService,
		validator:     validator,
	}
}

type CreateCompanyRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}

// Create onboards the caller: a new company with the caller as owner
// POST /api/companies
func (h *CompanyHandler) Create(c *fiber.Ctx) error {
	var req CreateCompanyRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Invalid(c, "invalid request body")
	}
	if err := h.validator.Validate(req); err != nil {
		return response.Error(c, err)
	}

	company, err := h.tenantService.CreateCompany(c.UserContext(), middleware.IdentityFrom(c), req.Name)
	if err != nil {
		return response.Error(c, err)
	}

	return response.JSON(c, fiber.StatusCreated, company)
}

// GetMine returns the caller's company
// GET /api/companies/me
func (h *CompanyHandler) GetMine(c *fiber.Ctx) error {
	tenantID, _ := middleware.TenantFrom(c)

	company, err := h.tenantService.GetCompany(c.UserContext(), tenantID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, company)
}
