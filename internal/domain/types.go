package domain

import "time"

type User struct {
	ID               int64     `json:"id"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"`
	Name             string    `json:"name"`
	Phone            string    `json:"phone"`
	Birthday         time.Time `json:"birthday"`
	Gender           Gender    `json:"gender"`
	Disabled         bool      `json:"disabled"`
	VerificationCode *string   `json:"-"`
	RegisteredAt     time.Time `json:"registered_at"`
}

type Profile struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"user_id"`
	Nickname  string     `json:"nickname"`
	ImageKey  *string    `json:"image_key,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type Area struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Room struct {
	ID        int64     `json:"id"`
	AreaID    int64     `json:"area_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Furniture struct {
	ID          int64     `json:"id"`
	RoomID      int64     `json:"room_id"`
	Name        string    `json:"name"`
	Rows        int       `json:"rows"`
	Location    *string   `json:"location"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Item struct {
	ID          int64     `json:"id"`
	FurnitureID int64     `json:"furniture_id"`
	Name        string    `json:"name"`
	Type        ItemType  `json:"type"`
	Quantity    int       `json:"quantity"`
	RowNumber   int       `json:"row_number"`
	ImageKey    *string   `json:"image_key,omitempty"`
	ExpiresOn   *Date     `json:"expires_on"`
	ReceivedAt  time.Time `json:"received_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UserInfo is the self-view of an account: the user row joined with its
// profile, if one exists.
type UserInfo struct {
	User    *User    `json:"user"`
	Profile *Profile `json:"profile"`
}

// Kind names an entity class in the ownership tree.
type Kind int

const (
	KindUser Kind = iota
	KindArea
	KindRoom
	KindFurniture
	KindItem
)

func (k Kind) String() string {
	switch k {
	case KindUser:
		return "user"
	case KindArea:
		return "area"
	case KindRoom:
		return "room"
	case KindFurniture:
		return "furniture"
	case KindItem:
		return "item"
	default:
		return "unknown"
	}
}

// Ref points at one row of the ownership tree.
type Ref struct {
	Kind Kind
	ID   int64
}

// Owned is implemented by every entity below the User root. ParentRef
// returns the entity's direct parent in the containment chain.
type Owned interface {
	SelfRef() Ref
	ParentRef() Ref
}

func (a *Area) SelfRef() Ref        { return Ref{Kind: KindArea, ID: a.ID} }
func (a *Area) ParentRef() Ref      { return Ref{Kind: KindUser, ID: a.UserID} }
func (r *Room) SelfRef() Ref        { return Ref{Kind: KindRoom, ID: r.ID} }
func (r *Room) ParentRef() Ref      { return Ref{Kind: KindArea, ID: r.AreaID} }
func (f *Furniture) SelfRef() Ref   { return Ref{Kind: KindFurniture, ID: f.ID} }
func (f *Furniture) ParentRef() Ref { return Ref{Kind: KindRoom, ID: f.RoomID} }
func (i *Item) SelfRef() Ref        { return Ref{Kind: KindItem, ID: i.ID} }
func (i *Item) ParentRef() Ref      { return Ref{Kind: KindFurniture, ID: i.FurnitureID} }
