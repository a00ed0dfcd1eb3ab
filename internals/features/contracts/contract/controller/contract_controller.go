package controller

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"cleanops_backend/internals/features/contracts/contract/dto"
	"cleanops_backend/internals/features/contracts/contract/service"
	helper "cleanops_backend/internals/helpers"
)

type ContractController struct {
	Svc      *service.ContractService
	Validate *helper.Validator
}

func NewContractController(db *gorm.DB, v *helper.Validator, log *zap.Logger) *ContractController {
	return &ContractController{Svc: service.NewContractService(db, log), Validate: v}
}

// GET /contracts
func (ctl *ContractController) List(c *fiber.Ctx) error {
	lq := helper.ParseListQuery(c)
	var f dto.ListContractsQuery
	if err := helper.BindQuery(c, ctl.Validate, &f); err != nil {
		return err
	}
	rows, p, err := ctl.Svc.List(c.UserContext(), lq, f)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "contracts", rows, p)
}

// GET /contracts/:id
func (ctl *ContractController) Get(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	m, err := ctl.Svc.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "contract", m)
}

// POST /contracts
func (ctl *ContractController) Create(c *fiber.Ctx) error {
	var req dto.CreateContractRequest
	if err := helper.BindAndValidate(c, ctl.Validate, &req); err != nil {
		return err
	}
	m, err := ctl.Svc.Create(c.UserContext(), req)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "contract created", m)
}

// PATCH /contracts/:id
func (ctl *ContractController) Update(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateContractRequest
	if err := helper.BindAndValidate(c, ctl.Validate, &req); err != nil {
		return err
	}
	m, err := ctl.Svc.Update(c.UserContext(), id, req)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "contract updated", m)
}

// DELETE /contracts/:id
func (ctl *ContractController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	if err := ctl.Svc.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return helper.JsonDeleted(c, "contract deleted", fiber.Map{"id": id})
}
