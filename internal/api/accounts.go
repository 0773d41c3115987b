package api

import (
	"github.com/Veraticus/the-books-must-balance/internal/model"
	"github.com/gofiber/fiber/v2"
)

type accountRequest struct {
	Name string            `json:"name"`
	Type model.AccountType `json:"type"`
}

type paymentMethodRequest struct {
	AccountID string                  `json:"account_id"`
	Kind      model.PaymentMethodKind `json:"kind"`
	Name      string                  `json:"name"`
	LastFour  string                  `json:"last_four"`
}

func (s *Server) listAccounts(c *fiber.Ctx) error {
	accounts, err := s.ledger.ListAccounts(c.UserContext(), ownerOf(c))
	if err != nil {
		return err
	}
	return list(c, accounts)
}

func (s *Server) createAccount(c *fiber.Ctx) error {
	var req accountRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	account, err := s.ledger.CreateAccount(c.UserContext(), ownerOf(c), req.Name, req.Type)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(account)
}

func (s *Server) seedAccounts(c *fiber.Ctx) error {
	accounts, err := s.ledger.SeedDefaultAccounts(c.UserContext(), ownerOf(c))
	if err != nil {
		return err
	}
	return list(c, accounts)
}

// renameAccount only accepts a name; the type of an account never changes.
func (s *Server) renameAccount(c *fiber.Ctx) error {
	var req accountRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.Type != "" {
		return badRequest("account type cannot be changed")
	}

	ctx, owner := c.UserContext(), ownerOf(c)
	if err := s.ledger.RenameAccount(ctx, owner, c.Params("id"), req.Name); err != nil {
		return err
	}

	account, err := s.ledger.GetAccount(ctx, owner, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(account)
}

func (s *Server) deleteAccount(c *fiber.Ctx) error {
	if err := s.ledger.DeleteAccount(c.UserContext(), ownerOf(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) balances(c *fiber.Ctx) error {
	balances, err := s.ledger.AccountBalances(c.UserContext(), ownerOf(c))
	if err != nil {
		return err
	}
	return list(c, balances)
}

func (s *Server) listPaymentMethods(c *fiber.Ctx) error {
	methods, err := s.ledger.ListPaymentMethods(c.UserContext(), ownerOf(c), c.Params("id"))
	if err != nil {
		return err
	}
	return list(c, methods)
}

func (s *Server) createPaymentMethod(c *fiber.Ctx) error {
	var req paymentMethodRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	pm := &model.PaymentMethod{
		AccountID: c.Params("id"),
		Kind:      req.Kind,
		Name:      req.Name,
		LastFour:  req.LastFour,
	}
	if err := s.ledger.CreatePaymentMethod(c.UserContext(), ownerOf(c), pm); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(pm)
}

func (s *Server) updatePaymentMethod(c *fiber.Ctx) error {
	var req paymentMethodRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	pm := &model.PaymentMethod{
		ID:        c.Params("id"),
		AccountID: req.AccountID,
		Kind:      req.Kind,
		Name:      req.Name,
		LastFour:  req.LastFour,
	}
	if err := s.ledger.UpdatePaymentMethod(c.UserContext(), ownerOf(c), pm); err != nil {
		return err
	}
	return c.JSON(pm)
}

func (s *Server) deletePaymentMethod(c *fiber.Ctx) error {
	if err := s.ledger.DeletePaymentMethod(c.UserContext(), ownerOf(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
