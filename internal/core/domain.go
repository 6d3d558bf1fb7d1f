package core

import (
	"errors"
	"strings"
)

const (
	RepeatNone    RepeatType = "none"
	RepeatMonthly RepeatType = "monthly"
)

type (
	// RepeatType describes how often an expense recurs.
	RepeatType string

	Money struct {
		Cents int64
	}

	User struct {
		ID       int64
		Username string
	}

	// Expense is a recurring or one-time bill the user expects to pay.
	Expense struct {
		ID       int64
		Name     string
		Expected Money
		DueDate  Date
		Repeat   RepeatType
		Owner    string
	}

	// Spending is an actual transaction, optionally linked to an Expense
	// by name. The link is a plain string match, not a foreign key.
	Spending struct {
		ID          int64
		Name        string
		Amount      Money
		Date        Date
		Category    string
		Owner       string
		ExpenseName string
	}

	Income struct {
		ID     int64
		Name   string
		Amount Money
		Date   Date
		Type   string
		Owner  string
	}

	Debt struct {
		ID         int64
		Name       string
		Amount     Money
		TargetDate Date
		Owner      string
	}

	Goal struct {
		ID         int64
		Name       string
		Target     Money
		Current    Money
		TargetDate Date
		Owner      string
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date")
	ErrEmptyName     = errors.New("empty name")
	ErrEmptyUsername = errors.New("empty username")
	ErrEmptyPassword = errors.New("empty password")
	ErrInvalidRepeat = errors.New("invalid repeat type")
	ErrInvalidMonth  = errors.New("invalid month")
	ErrEmptyCategory = errors.New("empty category")
	ErrEmptyType     = errors.New("empty income type")
)

func (t RepeatType) Validate() error {
	switch t {
	case RepeatNone, RepeatMonthly:
		return nil
	}
	return ErrInvalidRepeat
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return ErrEmptyName
	}
	if err := e.Expected.Validate(); err != nil {
		return err
	}
	if err := e.DueDate.Validate(); err != nil {
		return err
	}
	return e.Repeat.Validate()
}

func (s Spending) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrEmptyName
	}
	if err := s.Amount.Validate(); err != nil {
		return err
	}
	if err := s.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(s.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

func (i Income) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return ErrEmptyName
	}
	if err := i.Amount.Validate(); err != nil {
		return err
	}
	if err := i.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(i.Type) == "" {
		return ErrEmptyType
	}
	return nil
}

func (d Debt) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrEmptyName
	}
	if err := d.Amount.Validate(); err != nil {
		return err
	}
	return d.TargetDate.Validate()
}

func (g Goal) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyName
	}
	if err := g.Target.Validate(); err != nil {
		return err
	}
	if g.Current.Cents < 0 {
		return ErrInvalidAmount
	}
	return g.TargetDate.Validate()
}
