// Package cli implements the operator commands behind cmd/admin: creating an
// elevated account, toggling privilege, listing and deleting users.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/dmitrijs2005/microblog/internal/common"
	"github.com/dmitrijs2005/microblog/internal/server/models"
	"github.com/dmitrijs2005/microblog/internal/server/services"
)

var ErrUsage = errors.New("usage error")

const usage = `Available commands:
  create-admin                     create an elevated account (prompts for details)
  promote <email>                  grant elevated privilege
  demote <email>                   revoke elevated privilege
  delete <admin-email> <email>     delete a user on behalf of an admin
  list [limit] [offset]            list users in creation order`

// UserAdmin is the part of services.UserService the commands drive.
type UserAdmin interface {
	Create(ctx context.Context, in services.NewUser) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	SetElevated(ctx context.Context, id string, elevated bool) (*models.User, error)
	DeleteAs(ctx context.Context, actorID, targetID string) error
	List(ctx context.Context, limit, offset int) ([]*models.User, error)
}

type CLI struct {
	users  UserAdmin
	reader *bufio.Reader
	out    io.Writer
}

func New(users UserAdmin, in io.Reader, out io.Writer) *CLI {
	return &CLI{users: users, reader: bufio.NewReader(in), out: out}
}

// Run executes the command named by args[0].
func (c *CLI) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(c.out, usage)
		return ErrUsage
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "help":
		fmt.Fprintln(c.out, usage)
		return nil
	case "create-admin":
		return c.createAdmin(ctx)
	case "promote", "demote":
		if len(rest) != 1 {
			return fmt.Errorf("%w: %s <email>", ErrUsage, cmd)
		}
		return c.setElevated(ctx, rest[0], cmd == "promote")
	case "delete":
		if len(rest) != 2 {
			return fmt.Errorf("%w: delete <admin-email> <email>", ErrUsage)
		}
		return c.delete(ctx, rest[0], rest[1])
	case "list":
		return c.list(ctx, rest)
	default:
		fmt.Fprintln(c.out, usage)
		return fmt.Errorf("%w: unknown command %q", ErrUsage, cmd)
	}
}

func (c *CLI) createAdmin(ctx context.Context) error {
	name, err := GetSimpleText(c.reader, "Enter name", c.out)
	if err != nil {
		return err
	}
	email, err := GetSimpleText(c.reader, "Enter email", c.out)
	if err != nil {
		return err
	}
	password, err := GetPassword("Enter password", c.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	confirmation, err := GetPassword("Confirm password", c.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirmation)

	user, err := c.users.Create(ctx, services.NewUser{
		Name:         name,
		Email:        email,
		Password:     string(password),
		Confirmation: string(confirmation),
	})
	if err != nil {
		return err
	}
	if _, err := c.users.SetElevated(ctx, user.ID, true); err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Created admin %s (%s)\n", user.Email, user.ID)
	return nil
}

func (c *CLI) setElevated(ctx context.Context, email string, elevated bool) error {
	user, err := c.users.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("%s: %w", email, err)
	}
	if _, err := c.users.SetElevated(ctx, user.ID, elevated); err != nil {
		return err
	}

	fmt.Fprintf(c.out, "%s elevated=%t\n", user.Email, elevated)
	return nil
}

func (c *CLI) delete(ctx context.Context, adminEmail, email string) error {
	admin, err := c.users.GetByEmail(ctx, adminEmail)
	if err != nil {
		return fmt.Errorf("%s: %w", adminEmail, err)
	}
	target, err := c.users.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("%s: %w", email, err)
	}
	if err := c.users.DeleteAs(ctx, admin.ID, target.ID); err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Deleted %s\n", target.Email)
	return nil
}

func (c *CLI) list(ctx context.Context, args []string) error {
	var limit, offset int
	var err error
	if len(args) > 0 {
		if limit, err = strconv.Atoi(args[0]); err != nil {
			return fmt.Errorf("%w: limit must be a number", ErrUsage)
		}
	}
	if len(args) > 1 {
		if offset, err = strconv.Atoi(args[1]); err != nil {
			return fmt.Errorf("%w: offset must be a number", ErrUsage)
		}
	}

	users, err := c.users.List(ctx, limit, offset)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tADMIN")
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%t\n", u.ID, u.Name, u.Email, u.IsElevated)
	}
	return tw.Flush()
}
