// Package rpc is the catalog of named operations. Each operation decodes and
// validates its input, loads the records it touches, asks the policy
// evaluator, and only then calls the repository layer.
package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sort"

	"github.com/hugh/buddy-tracker/internal/api/dto"
	"github.com/hugh/buddy-tracker/internal/api/validation"
	"github.com/hugh/buddy-tracker/internal/database/models"
	"github.com/hugh/buddy-tracker/internal/policy"
	"github.com/hugh/buddy-tracker/internal/repository"
)

type Kind int

const (
	Query Kind = iota
	Mutation
)

func (k Kind) String() string {
	if k == Mutation {
		return "mutation"
	}
	return "query"
}

// Session is the transport's handle on the caller's credential.
type Session interface {
	// ClearCredential invalidates the caller's session credential.
	ClearCredential()
}

// Request describes who is calling. User is nil for anonymous callers.
type Request struct {
	User    *models.User
	Session Session
}

type handlerFunc func(ctx context.Context, c *call, raw json.RawMessage) (interface{}, error)

type Operation struct {
	Name   string
	Kind   Kind
	Public bool

	adminOnly bool
	handle    handlerFunc
}

func (o *Operation) AdminOnly() bool {
	return o.adminOnly
}

type Dispatcher struct {
	repos  *repository.Repositories
	policy *policy.Evaluator
	logger *slog.Logger
	ops    map[string]*Operation
}

func NewDispatcher(repos *repository.Repositories, evaluator *policy.Evaluator, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	d := &Dispatcher{
		repos:  repos,
		policy: evaluator,
		logger: logger,
		ops:    make(map[string]*Operation),
	}
	for _, op := range catalog() {
		op.adminOnly = evaluator.AdminOnly(policy.Action(op.Name))
		d.ops[op.Name] = op
	}
	return d
}

func (d *Dispatcher) Lookup(name string) (*Operation, bool) {
	op, ok := d.ops[name]
	return op, ok
}

// Names lists the registered operations in sorted order.
func (d *Dispatcher) Names() []string {
	names := make([]string, 0, len(d.ops))
	for name := range d.ops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Call runs the named operation. Failures are always *Error.
func (d *Dispatcher) Call(ctx context.Context, req *Request, name string, raw json.RawMessage) (interface{}, error) {
	op, ok := d.ops[name]
	if !ok {
		return nil, &Error{Code: dto.CodeNotFound, Message: "Unknown operation " + name}
	}
	if req == nil {
		req = &Request{}
	}

	if !op.Public && req.User == nil {
		return nil, errUnauthorized
	}
	if op.adminOnly && req.User.Role != models.RoleAdmin {
		return nil, errAdminOnly
	}

	c := &call{d: d, req: req, action: policy.Action(op.Name)}
	result, err := op.handle(ctx, c, raw)
	if err != nil {
		rpcErr := AsError(err)
		d.log(ctx, op, req, rpcErr)
		return nil, rpcErr
	}
	return result, nil
}

func (d *Dispatcher) log(ctx context.Context, op *Operation, req *Request, err *Error) {
	attrs := []any{"op", op.Name, "code", err.Code}
	if req.User != nil {
		attrs = append(attrs, "user_id", req.User.ID)
	}
	if err.Err != nil {
		attrs = append(attrs, "error", err.Err)
	}

	switch err.Code {
	case dto.CodeInternal, dto.CodeStoreUnavailable:
		d.logger.ErrorContext(ctx, "operation failed", attrs...)
	default:
		d.logger.DebugContext(ctx, "operation rejected", attrs...)
	}
}

// call carries per-invocation state. The caller's profile ids are looked up
// at most once, and only when a rule needs them.
type call struct {
	d      *Dispatcher
	req    *Request
	action policy.Action
	sub    *policy.Subject
}

func (c *call) repos() *repository.Repositories {
	return c.d.repos
}

func (c *call) user() *models.User {
	return c.req.User
}

func (c *call) subject(ctx context.Context) (policy.Subject, error) {
	if c.sub != nil {
		return *c.sub, nil
	}
	u := c.req.User
	if u == nil {
		return policy.Subject{}, nil
	}

	sub := policy.Subject{UserID: u.ID, Role: u.Role}
	if u.Role != models.RoleAdmin {
		var err error
		if sub.BuddyID, sub.NewHireID, err = c.d.profileIDs(ctx, u.ID); err != nil {
			return policy.Subject{}, err
		}
	}
	c.sub = &sub
	return sub, nil
}

func (c *call) authorize(ctx context.Context, res policy.Resource) error {
	sub, err := c.subject(ctx)
	if err != nil {
		return err
	}
	return c.d.policy.Authorize(sub, c.action, res)
}

// profileIDs returns the buddy and new-hire profile ids of a user, zero for
// a profile the user does not have.
func (d *Dispatcher) profileIDs(ctx context.Context, userID uint) (buddyID, newHireID uint, err error) {
	b, err := d.repos.Buddies.GetByUserID(ctx, userID)
	switch {
	case err == nil:
		buddyID = b.ID
	case !errors.Is(err, repository.ErrNotFound):
		return 0, 0, err
	}

	n, err := d.repos.NewHires.GetByUserID(ctx, userID)
	switch {
	case err == nil:
		newHireID = n.ID
	case !errors.Is(err, repository.ErrNotFound):
		return 0, 0, err
	}
	return buddyID, newHireID, nil
}

// decode parses raw into In, rejecting unknown fields and trailing data, and
// runs the struct's validate tags.
func decode[In any](raw json.RawMessage) (*In, error) {
	in := new(In)

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		trimmed = []byte("{}")
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.DisallowUnknownFields()
	if err := dec.Decode(in); err != nil {
		return nil, badRequest("Invalid input", map[string]string{"input": err.Error()})
	}
	if dec.More() {
		return nil, badRequest("Invalid input", map[string]string{"input": "unexpected data after input object"})
	}

	if details := validation.Struct(in); details != nil {
		return nil, badRequest("Validation failed", details)
	}
	if s, ok := any(in).(dto.Sanitizer); ok {
		s.Sanitize()
	}
	return in, nil
}

func register[In any](name string, kind Kind, fn func(ctx context.Context, c *call, in *In) (interface{}, error)) *Operation {
	return &Operation{
		Name: name,
		Kind: kind,
		handle: func(ctx context.Context, c *call, raw json.RawMessage) (interface{}, error) {
			in, err := decode[In](raw)
			if err != nil {
				return nil, err
			}
			return fn(ctx, c, in)
		},
	}
}

func query[In any](name string, fn func(ctx context.Context, c *call, in *In) (interface{}, error)) *Operation {
	return register(name, Query, fn)
}

func mutation[In any](name string, fn func(ctx context.Context, c *call, in *In) (interface{}, error)) *Operation {
	return register(name, Mutation, fn)
}

func public(op *Operation) *Operation {
	op.Public = true
	return op
}

func catalog() []*Operation {
	var ops []*Operation
	ops = append(ops, authOps()...)
	ops = append(ops, dashboardOps()...)
	ops = append(ops, buddyOps()...)
	ops = append(ops, newHireOps()...)
	ops = append(ops, associationOps()...)
	ops = append(ops, taskOps()...)
	ops = append(ops, meetingOps()...)
	ops = append(ops, meetingNoteOps()...)
	ops = append(ops, userOps()...)
	return ops
}
