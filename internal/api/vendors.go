package api

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type vendorMappingRequest struct {
	Pattern   string `json:"pattern"`
	AccountID string `json:"account_id"`
}

func (s *Server) listVendorMappings(c *fiber.Ctx) error {
	mappings, err := s.ledger.ListVendorMappings(c.UserContext(), ownerOf(c))
	if err != nil {
		return err
	}
	return list(c, mappings)
}

func (s *Server) createVendorMapping(c *fiber.Ctx) error {
	var req vendorMappingRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	mapping, err := s.ledger.CreateVendorMapping(c.UserContext(), ownerOf(c), req.Pattern, req.AccountID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(mapping)
}

func (s *Server) deleteVendorMapping(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return badRequest("mapping id must be numeric")
	}
	if err := s.ledger.DeleteVendorMapping(c.UserContext(), ownerOf(c), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) suggestCategory(c *fiber.Ctx) error {
	vendor := c.Query("vendor")
	if vendor == "" {
		return badRequest("vendor is required")
	}

	accountID, ok, err := s.ledger.SuggestCategory(c.UserContext(), ownerOf(c), vendor)
	if err != nil {
		return err
	}
	if !ok {
		return c.JSON(fiber.Map{"matched": false})
	}
	return c.JSON(fiber.Map{"matched": true, "account_id": accountID})
}
