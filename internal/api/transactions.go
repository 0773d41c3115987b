package api

import (
	"strings"
	"time"

	"github.com/Veraticus/the-books-must-balance/internal/engine"
	"github.com/Veraticus/the-books-must-balance/internal/model"
	"github.com/gofiber/fiber/v2"
)

type transactionRequest struct {
	Date        string             `json:"date"`
	Description string             `json:"description"`
	EvidenceRef string             `json:"evidence_ref"`
	ExternalID  string             `json:"external_id"`
	Entries     []model.EntryInput `json:"entries"`
	Version     int                `json:"version"`
}

func (r transactionRequest) input() (model.TransactionInput, error) {
	date, err := time.Parse(model.DateLayout, strings.TrimSpace(r.Date))
	if err != nil {
		return model.TransactionInput{}, badRequest("date must be YYYY-MM-DD")
	}
	return model.TransactionInput{
		Date:        date,
		Description: r.Description,
		EvidenceRef: r.EvidenceRef,
		ExternalID:  r.ExternalID,
		Entries:     r.Entries,
		Version:     r.Version,
	}, nil
}

func (s *Server) listTransactions(c *fiber.Ctx) error {
	period, err := periodOf(c)
	if err != nil {
		return err
	}

	txns, err := s.ledger.ListTransactions(c.UserContext(), ownerOf(c), period)
	if err != nil {
		return err
	}

	out := make([]model.Transaction, 0, len(txns))
	for _, t := range txns {
		out = append(out, t.Transaction)
	}
	return c.JSON(out)
}

func (s *Server) createTransaction(c *fiber.Ctx) error {
	var req transactionRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	input, err := req.input()
	if err != nil {
		return err
	}

	txn, err := s.ledger.CreateTransaction(c.UserContext(), ownerOf(c), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(txn)
}

func (s *Server) getTransaction(c *fiber.Ctx) error {
	txn, err := s.ledger.GetTransaction(c.UserContext(), ownerOf(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(txn)
}

func (s *Server) updateTransaction(c *fiber.Ctx) error {
	var req transactionRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	input, err := req.input()
	if err != nil {
		return err
	}
	if input.Version < 1 {
		return badRequest("version is required")
	}

	txn, err := s.ledger.UpdateTransaction(c.UserContext(), ownerOf(c), c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(txn)
}

func (s *Server) deleteTransaction(c *fiber.Ctx) error {
	if err := s.ledger.DeleteTransaction(c.UserContext(), ownerOf(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) evidenceURL(c *fiber.Ctx) error {
	ttl := engine.DefaultEvidenceTTL
	if raw := c.Query("ttl"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil || parsed <= 0 {
			return badRequest("ttl must be a positive duration such as 15m")
		}
		ttl = parsed
	}

	url, err := s.ledger.EvidenceURL(c.UserContext(), ownerOf(c), c.Params("id"), ttl)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"url": url, "expires_in": ttl.String()})
}
