package entity

import (
	"errors"
	"fmt"
	"time"
)

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "PENDING"
	RequestStatusApproved RequestStatus = "APPROVED"
	RequestStatusRejected RequestStatus = "REJECTED"
)

// SubmittedAtLayout is the display date format stamped on a request.
const SubmittedAtLayout = "02/01/2006"

// Request is a user's purchase/rental application against a listing. The
// listing is a value snapshot taken at submission time, not a live
// reference; later edits to the listing do not rewrite history.
type Request struct {
	ID          int64         `json:"id"`
	UserID      string        `json:"userId"`
	Listing     Listing       `json:"listing"`
	SubmittedAt string        `json:"submittedAt"`
	Status      RequestStatus `json:"status"`
}

// NewRequest creates a pending request for the given user, stamped with
// today's date. The ID is assigned by the store on append.
func NewRequest(userID string, listing Listing) (*Request, error) {
	if userID == "" {
		return nil, errors.New("user identity cannot be empty")
	}
	return &Request{
		UserID:      userID,
		Listing:     listing,
		SubmittedAt: time.Now().Format(SubmittedAtLayout),
		Status:      RequestStatusPending,
	}, nil
}

// UpdateStatus applies a lifecycle transition. Approved and Rejected are
// terminal; the only legal moves are Pending to either of them.
func (r *Request) UpdateStatus(newStatus RequestStatus) error {
	if r.Status == newStatus {
		return nil
	}
	validTransitions := map[RequestStatus][]RequestStatus{
		RequestStatusPending:  {RequestStatusApproved, RequestStatusRejected},
		RequestStatusApproved: {},
		RequestStatusRejected: {},
	}
	allowed, ok := validTransitions[r.Status]
	if !ok {
		return fmt.Errorf("cannot transition from unknown status %s", r.Status)
	}
	for _, s := range allowed {
		if s == newStatus {
			r.Status = newStatus
			return nil
		}
	}
	return fmt.Errorf("invalid status transition from %s to %s", r.Status, newStatus)
}

// IsDecided reports whether the request reached a terminal status.
func (r *Request) IsDecided() bool {
	return r.Status == RequestStatusApproved || r.Status == RequestStatusRejected
}
