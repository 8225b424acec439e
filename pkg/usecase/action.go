package usecase

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/litigio/tramita/pkg/domain/interfaces"
	"github.com/litigio/tramita/pkg/domain/model"
	"github.com/litigio/tramita/pkg/domain/model/auth"
	"github.com/litigio/tramita/pkg/domain/types"
	"github.com/litigio/tramita/pkg/service/notify"
	"github.com/litigio/tramita/pkg/utils/async"
	"github.com/litigio/tramita/pkg/utils/errutil"
	"github.com/m-mizutani/goerr/v2"
)

// Scope selects which actions a caller sees and may mutate
type Scope string

const (
	ScopeAll  Scope = "all"
	ScopeMine Scope = "mine"
)

// ParseScope parses a scope string, defaulting to ScopeAll
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case "", ScopeAll:
		return ScopeAll, nil
	case ScopeMine:
		return ScopeMine, nil
	default:
		return "", goerr.Wrap(ErrInvalidInput, "invalid scope", goerr.V("scope", s))
	}
}

// ActionUseCase is the lifecycle engine: the single writer of action
// status fields and their timestamp side effects.
type ActionUseCase struct {
	repo     interfaces.Repository
	registry *model.TenantRegistry
	notifier notify.Service
	clock    func() time.Time
}

func NewActionUseCase(repo interfaces.Repository, registry *model.TenantRegistry) *ActionUseCase {
	return &ActionUseCase{
		repo:     repo,
		registry: registry,
		clock:    time.Now,
	}
}

// CreateActionInput carries the fields of a new action
type CreateActionInput struct {
	ClientID    int64
	Title       string
	Complexity  types.Complexity
	AssigneeRef string // user name, numeric ID, or empty for unassigned
}

func (uc *ActionUseCase) CreateAction(ctx context.Context, tenantID string, input CreateActionInput) (*model.Action, error) {
	if input.Title == "" {
		return nil, goerr.Wrap(ErrInvalidInput, "action title is required")
	}
	if !input.Complexity.IsValid() {
		return nil, goerr.Wrap(ErrInvalidInput, "invalid complexity",
			goerr.V("complexity", input.Complexity))
	}

	if _, err := uc.repo.Client().Get(ctx, tenantID, input.ClientID); err != nil {
		return nil, goerr.Wrap(ErrClientNotFound, "client not found",
			goerr.V(ClientIDKey, input.ClientID))
	}

	assigneeID, err := uc.resolveAssignee(ctx, tenantID, input.AssigneeRef)
	if err != nil {
		return nil, err
	}

	var creatorID int64
	if token, tokenErr := auth.TokenFromContext(ctx); tokenErr == nil {
		creatorID = token.UserID
	}

	action := &model.Action{
		ClientID:   input.ClientID,
		Title:      input.Title,
		Complexity: input.Complexity,
		Status:     types.ActionStatusUnstarted,
		AssigneeID: assigneeID,
		CreatorID:  creatorID,
	}

	created, err := uc.repo.Action().Create(ctx, tenantID, action)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create action",
			goerr.V(ClientIDKey, input.ClientID))
	}

	return created, nil
}

// UpdateActionInput updates only the fields that are non-nil
type UpdateActionInput struct {
	Status      *string
	AssigneeRef *string
	Complexity  *string
}

// UpdateAction applies a plain status/assignment/complexity edit.
// Approval and filing are orthogonal side channels not touched here.
func (uc *ActionUseCase) UpdateAction(ctx context.Context, tenantID string, id int64, scope Scope, input UpdateActionInput) (*model.Action, error) {
	existing, err := uc.getScoped(ctx, tenantID, id, scope)
	if err != nil {
		return nil, err
	}

	if input.Status != nil {
		status, parseErr := types.ParseActionStatus(*input.Status)
		if parseErr != nil {
			return nil, goerr.Wrap(ErrInvalidInput, "invalid action status",
				goerr.V("status", *input.Status), goerr.V(ActionIDKey, id))
		}
		uc.applyStatus(existing, status)
	}

	if input.Complexity != nil {
		complexity, parseErr := types.ParseComplexity(*input.Complexity)
		if parseErr != nil {
			return nil, goerr.Wrap(ErrInvalidInput, "invalid complexity",
				goerr.V("complexity", *input.Complexity), goerr.V(ActionIDKey, id))
		}
		existing.Complexity = complexity
	}

	if input.AssigneeRef != nil {
		assigneeID, resolveErr := uc.resolveAssignee(ctx, tenantID, *input.AssigneeRef)
		if resolveErr != nil {
			return nil, resolveErr
		}
		existing.AssigneeID = assigneeID
	}

	updated, err := uc.repo.Action().Update(ctx, tenantID, existing)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update action", goerr.V(ActionIDKey, id))
	}

	return updated, nil
}

// applyStatus sets the status and its timestamp side effect: entering a
// completed-like status stamps CompletedAt once (monotonic), entering
// an active status clears it.
func (uc *ActionUseCase) applyStatus(action *model.Action, status types.ActionStatus) {
	action.Status = status
	if status.IsCompletedLike() {
		if action.CompletedAt == nil {
			now := uc.clock().UTC()
			action.CompletedAt = &now
		}
	} else {
		action.CompletedAt = nil
	}
}

// Approve stamps the approval timestamp. Idempotent: re-approving
// refreshes the timestamp. This is the single event that hides the
// action from the active board on the next reconciliation pass.
func (uc *ActionUseCase) Approve(ctx context.Context, tenantID string, id int64, scope Scope) (*model.Action, error) {
	existing, err := uc.getScoped(ctx, tenantID, id, scope)
	if err != nil {
		return nil, err
	}

	now := uc.clock().UTC()
	existing.ApprovedAt = &now

	updated, err := uc.repo.Action().Update(ctx, tenantID, existing)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to approve action", goerr.V(ActionIDKey, id))
	}

	uc.notifyReview(ctx, tenantID, updated, "")

	return updated, nil
}

// Return clears the approval timestamp, re-admitting the action to the
// active board, and stores the reviewer comment. The filed flag cannot
// survive without approval, so it is cleared as well. Comment
// requirements are enforced by the interaction layer, not here.
func (uc *ActionUseCase) Return(ctx context.Context, tenantID string, id int64, scope Scope, comment string) (*model.Action, error) {
	existing, err := uc.getScoped(ctx, tenantID, id, scope)
	if err != nil {
		return nil, err
	}

	existing.ApprovedAt = nil
	existing.Filed = false
	if comment != "" {
		existing.ReviewComment = comment
	}

	updated, err := uc.repo.Action().Update(ctx, tenantID, existing)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to return action", goerr.V(ActionIDKey, id))
	}

	uc.notifyReview(ctx, tenantID, updated, comment)

	return updated, nil
}

// MarkFiled sets the filed flag. Only meaningful once the action is
// approved.
func (uc *ActionUseCase) MarkFiled(ctx context.Context, tenantID string, id int64, scope Scope) (*model.Action, error) {
	existing, err := uc.getScoped(ctx, tenantID, id, scope)
	if err != nil {
		return nil, err
	}

	if !existing.Approved() {
		return nil, goerr.Wrap(ErrNotApproved, "cannot file an unapproved action",
			goerr.V(ActionIDKey, id))
	}

	existing.Filed = true

	updated, err := uc.repo.Action().Update(ctx, tenantID, existing)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to mark action filed", goerr.V(ActionIDKey, id))
	}

	return updated, nil
}

// Unfile clears the filed flag and the approval timestamp, returning
// the action to the active pool.
func (uc *ActionUseCase) Unfile(ctx context.Context, tenantID string, id int64, scope Scope) (*model.Action, error) {
	existing, err := uc.getScoped(ctx, tenantID, id, scope)
	if err != nil {
		return nil, err
	}

	existing.Filed = false
	existing.ApprovedAt = nil

	updated, err := uc.repo.Action().Update(ctx, tenantID, existing)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to unfile action", goerr.V(ActionIDKey, id))
	}

	return updated, nil
}

func (uc *ActionUseCase) GetAction(ctx context.Context, tenantID string, id int64, scope Scope) (*model.Action, error) {
	return uc.getScoped(ctx, tenantID, id, scope)
}

// GetActionView fetches a single action enriched with display names
func (uc *ActionUseCase) GetActionView(ctx context.Context, tenantID string, id int64, scope Scope) (*ActionView, error) {
	action, err := uc.getScoped(ctx, tenantID, id, scope)
	if err != nil {
		return nil, err
	}

	views, err := uc.buildViews(ctx, tenantID, []*model.Action{action})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// ActionView is an action enriched with the display names the board
// renders.
type ActionView struct {
	Action       *model.Action
	ClientName   string
	Reference    string // client document ID
	AssigneeName string // "None" when unassigned
	CreatorName  string // "System" when created without a caller identity
}

// ListActions returns the tenant's actions, ordered by ID. Scope
// "mine" restricts to the caller's assignments; a status filter keeps
// only actions whose normalized status matches.
func (uc *ActionUseCase) ListActions(ctx context.Context, tenantID string, scope Scope, statusFilter string) ([]*ActionView, error) {
	var wantStatus types.ActionStatus
	if statusFilter != "" {
		parsed, parseErr := types.ParseActionStatus(statusFilter)
		if parseErr != nil {
			return nil, goerr.Wrap(ErrInvalidInput, "invalid status filter",
				goerr.V("status", statusFilter))
		}
		wantStatus = parsed
	}

	var actions []*model.Action
	var err error
	switch {
	case scope == ScopeMine:
		token, tokenErr := auth.TokenFromContext(ctx)
		if tokenErr != nil {
			return nil, goerr.Wrap(ErrUnauthorized, "personal scope requires a caller identity")
		}
		if token.UserID == 0 {
			// anonymous callers own nothing; zero would match unassigned rows
			actions = []*model.Action{}
		} else {
			actions, err = uc.repo.Action().ListByAssignee(ctx, tenantID, token.UserID)
		}
	case wantStatus != "":
		actions, err = uc.repo.Action().ListByStatus(ctx, tenantID, wantStatus.StoredValues())
	default:
		actions, err = uc.repo.Action().List(ctx, tenantID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list actions")
	}

	// the personal scope combines with a status filter in memory
	if scope == ScopeMine && wantStatus != "" {
		filtered := actions[:0]
		for _, action := range actions {
			if action.Status.Normalize() == wantStatus {
				filtered = append(filtered, action)
			}
		}
		actions = filtered
	}

	sort.Slice(actions, func(i, j int) bool { return actions[i].ID < actions[j].ID })

	return uc.buildViews(ctx, tenantID, actions)
}

func (uc *ActionUseCase) buildViews(ctx context.Context, tenantID string, actions []*model.Action) ([]*ActionView, error) {
	clients := make(map[int64]*model.Client)
	users := make(map[int64]*model.User)

	views := make([]*ActionView, 0, len(actions))
	for _, action := range actions {
		view := &ActionView{
			Action:       action,
			AssigneeName: "None",
			CreatorName:  "System",
		}

		client, ok := clients[action.ClientID]
		if !ok {
			var err error
			client, err = uc.repo.Client().Get(ctx, tenantID, action.ClientID)
			if err != nil {
				return nil, goerr.Wrap(err, "failed to resolve action client",
					goerr.V(ActionIDKey, action.ID), goerr.V(ClientIDKey, action.ClientID))
			}
			clients[action.ClientID] = client
		}
		view.ClientName = client.Name
		view.Reference = client.DocumentID

		view.AssigneeName = uc.userName(ctx, tenantID, users, action.AssigneeID, "None")
		view.CreatorName = uc.userName(ctx, tenantID, users, action.CreatorID, "System")

		views = append(views, view)
	}

	return views, nil
}

// userName resolves a user's display name with a per-call cache. A
// dangling reference degrades to the fallback instead of failing the
// whole listing.
func (uc *ActionUseCase) userName(ctx context.Context, tenantID string, cache map[int64]*model.User, id int64, fallback string) string {
	if id == 0 {
		return fallback
	}
	if user, ok := cache[id]; ok {
		if user == nil {
			return fallback
		}
		return user.Name
	}

	user, err := uc.repo.User().Get(ctx, tenantID, id)
	if err != nil {
		cache[id] = nil
		return fallback
	}
	cache[id] = user
	return user.Name
}

// resolveAssignee maps a human-readable reference to a concrete user in
// the tenant. Empty or "none" clears the assignment; anything else must
// resolve or the edit is rejected.
func (uc *ActionUseCase) resolveAssignee(ctx context.Context, tenantID string, ref string) (int64, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.EqualFold(ref, "none") {
		return 0, nil
	}

	if id, parseErr := strconv.ParseInt(ref, 10, 64); parseErr == nil {
		user, err := uc.repo.User().Get(ctx, tenantID, id)
		if err != nil {
			return 0, goerr.Wrap(ErrUserNotFound, "assignee not found",
				goerr.V(UserIDKey, id))
		}
		return user.ID, nil
	}

	user, err := uc.repo.User().FindByName(ctx, tenantID, ref)
	if err != nil {
		return 0, goerr.Wrap(ErrUserNotFound, "assignee not found",
			goerr.V("name", ref))
	}
	return user.ID, nil
}

// getScoped fetches an action, hiding its existence when a
// personal-scope caller is not the current assignee.
func (uc *ActionUseCase) getScoped(ctx context.Context, tenantID string, id int64, scope Scope) (*model.Action, error) {
	action, err := uc.repo.Action().Get(ctx, tenantID, id)
	if err != nil {
		return nil, goerr.Wrap(ErrActionNotFound, "action not found", goerr.V(ActionIDKey, id))
	}

	if scope == ScopeMine {
		token, tokenErr := auth.TokenFromContext(ctx)
		if tokenErr != nil {
			return nil, goerr.Wrap(ErrUnauthorized, "personal scope requires a caller identity")
		}
		if action.AssigneeID == 0 || action.AssigneeID != token.UserID {
			return nil, goerr.Wrap(ErrActionNotFound, "action not found", goerr.V(ActionIDKey, id))
		}
	}

	return action, nil
}

// notifyReview posts an approval/return event, best-effort and off the
// request path.
func (uc *ActionUseCase) notifyReview(ctx context.Context, tenantID string, action *model.Action, comment string) {
	if uc.notifier == nil || uc.registry == nil {
		return
	}

	tenant, err := uc.registry.Get(tenantID)
	if err != nil {
		errutil.Handle(ctx, err, "failed to resolve tenant for notification")
		return
	}

	client, err := uc.repo.Client().Get(ctx, tenantID, action.ClientID)
	if err != nil {
		errutil.Handle(ctx, err, "failed to resolve client for notification")
		return
	}

	approved := action.Approved()
	notified := action.Clone()
	async.Dispatch(ctx, func(ctx context.Context) error {
		if approved {
			return uc.notifier.ActionApproved(ctx, tenant.Name, client.Name, notified)
		}
		return uc.notifier.ActionReturned(ctx, tenant.Name, client.Name, notified, comment)
	})
}
