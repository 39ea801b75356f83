package store

import "context"

// Gender of a client.
type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
	GenderOther  Gender = "O"
)

// Client represents a registered retail client.
type Client struct {
	ID          int32
	Name        string
	DisplayName string
	Email       string
	Phone       string
	// DateOfBirth is stored as "YYYY-MM-DD", empty when unknown.
	DateOfBirth string
	Gender      Gender
	IsActive    bool
	CreatedTs   int64
	UpdatedTs   int64
}

// FindClient is the find condition for clients.
type FindClient struct {
	ID       *int32
	IsActive *bool
	Limit    int
	Offset   int
}

func (s *Store) CreateClient(ctx context.Context, create *Client) (*Client, error) {
	return s.driver.CreateClient(ctx, create)
}

func (s *Store) ListClients(ctx context.Context, find *FindClient) ([]*Client, error) {
	return s.driver.ListClients(ctx, find)
}

func (s *Store) GetClient(ctx context.Context, id int32) (*Client, error) {
	list, err := s.driver.ListClients(ctx, &FindClient{ID: &id})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}
