package api

import (
	"github.com/gofiber/fiber/v2"
)

func (s *Server) financialReport(c *fiber.Ctx) error {
	period, err := periodOf(c)
	if err != nil {
		return err
	}
	report, err := s.ledger.FinancialReport(c.UserContext(), ownerOf(c), period)
	if err != nil {
		return err
	}
	return c.JSON(report)
}

func (s *Server) monthlyReport(c *fiber.Ctx) error {
	period, err := periodOf(c)
	if err != nil {
		return err
	}
	months, err := s.ledger.MonthlyFinancials(c.UserContext(), ownerOf(c), period)
	if err != nil {
		return err
	}
	return list(c, months)
}

func (s *Server) categoryReport(c *fiber.Ctx) error {
	period, err := periodOf(c)
	if err != nil {
		return err
	}
	groups, err := s.ledger.CategorySpend(c.UserContext(), ownerOf(c), period)
	if err != nil {
		return err
	}
	return list(c, groups)
}

func (s *Server) vendorReport(c *fiber.Ctx) error {
	period, err := periodOf(c)
	if err != nil {
		return err
	}
	groups, err := s.ledger.VendorSpend(c.UserContext(), ownerOf(c), period)
	if err != nil {
		return err
	}
	return list(c, groups)
}
