package services

import (
	"encoding/json"
	"errors"

	"staffdir/internal/domain"
	"staffdir/internal/repos"
)

var (
	ErrNoPermission  = errors.New("no permission for such action")
	ErrInvalidFields = errors.New("invalid field payload")
)

// Patch keys handled outside the generic merge. "_id" is immutable;
// "manager" carries a raw id that is only ever stored as a resolved snapshot;
// the visa keys feed the dedicated visa merge.
var reservedKeys = map[string]bool{
	"_id":             true,
	"manager":         true,
	"issuing_country": true,
	"visa_type":       true,
	"start_date":      true,
	"end_date":        true,
}

// UpdateService applies partial updates to a record: it authorizes the caller
// against the target's current manager, resolves a manager reassignment into
// a snapshot (promoting the new manager to hr), merges the remaining fields
// last-write-wins, and commits the whole working set in one persist.
type UpdateService struct {
	Store *repos.UserStore
}

func (s *UpdateService) Apply(targetID string, caller domain.Caller, fields map[string]any) (domain.User, error) {
	s.Store.Lock()
	defer s.Store.Unlock()

	users, err := s.Store.Load()
	if err != nil {
		return domain.User{}, err
	}

	idx := indexByID(users, targetID)
	if idx < 0 {
		return domain.User{}, ErrNotFound
	}

	// Authorization reads the record as it stands before this request; the
	// update being asked for never influences the decision.
	target := users[idx]
	if caller.Role == "" || caller.ID == "" {
		return domain.User{}, ErrNoPermission
	}
	if !caller.IsAdmin() && (target.Manager == nil || caller.ID != target.Manager.ID) {
		return domain.User{}, ErrNoPermission
	}

	// Manager reassignment resolves and stages before any field is applied,
	// so an unknown id fails the whole request with nothing half-done.
	var snapshot *domain.Manager
	if managerID, _ := fields["manager"].(string); managerID != "" {
		mi := indexByID(users, managerID)
		if mi < 0 {
			return domain.User{}, ErrNotFound
		}
		// Overwrite, not elevate: even a previous admin becomes hr.
		users[mi].Role = domain.RoleHR
		snapshot = &domain.Manager{
			ID:        users[mi].ID,
			FirstName: users[mi].FirstName,
			LastName:  users[mi].LastName,
		}
	}

	// Generic merge starts from the working-set record, which already carries
	// a staged self-promotion when the target is its own new manager.
	merged, err := mergeFields(users[idx], fields)
	if err != nil {
		return domain.User{}, err
	}
	merged.ID = target.ID
	if snapshot != nil {
		merged.Manager = snapshot
	}
	mergeVisa(&merged, fields)

	users[idx] = merged
	if err := s.Store.Persist(users); err != nil {
		return domain.User{}, err
	}
	return merged, nil
}

func indexByID(users []domain.User, id string) int {
	for i := range users {
		if users[i].ID == id {
			return i
		}
	}
	return -1
}

// mergeFields overlays every non-reserved patch key onto the record's JSON
// document, keeping prior values for absent keys, then decodes the result
// back into a typed record.
func mergeFields(base domain.User, fields map[string]any) (domain.User, error) {
	raw, err := json.Marshal(base)
	if err != nil {
		return domain.User{}, err
	}
	doc := map[string]any{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return domain.User{}, err
	}
	for k, v := range fields {
		if reservedKeys[k] || v == nil {
			continue
		}
		doc[k] = v
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return domain.User{}, err
	}
	var merged domain.User
	if err := json.Unmarshal(out, &merged); err != nil {
		return domain.User{}, ErrInvalidFields
	}
	return merged, nil
}

// mergeVisa rebuilds the single-element visa slice from the incoming keys,
// falling back per field to the already-merged record's visa. A start date on
// its own does not create a visa for a user who has none.
func mergeVisa(u *domain.User, fields map[string]any) {
	country, hasCountry := stringField(fields, "issuing_country")
	vtype, hasType := stringField(fields, "visa_type")
	start, hasStart := intField(fields, "start_date")
	end, hasEnd := intField(fields, "end_date")

	if !hasType && !hasEnd && !(hasStart && len(u.Visa) > 0) {
		return
	}

	var visa domain.Visa
	if len(u.Visa) > 0 {
		visa = u.Visa[0]
	}
	if hasCountry {
		visa.IssuingCountry = country
	}
	if hasType {
		visa.Type = vtype
	}
	if hasStart {
		visa.StartDate = start
	}
	if hasEnd {
		visa.EndDate = end
	}
	u.Visa = []domain.Visa{visa}
}

func stringField(fields map[string]any, key string) (string, bool) {
	v, ok := fields[key].(string)
	return v, ok
}

func intField(fields map[string]any, key string) (int64, bool) {
	switch v := fields[key].(type) {
	case float64: // JSON numbers decode as float64
		return int64(v), true
	case int:
		return int64(v), true
	case int64:
		return v, true
	}
	return 0, false
}
