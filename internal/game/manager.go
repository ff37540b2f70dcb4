package game

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrUnauthorized    = errors.New("unauthorized")
)

// Role is what a token allows on a room.
type Role string

const (
	RoleTeacher Role = "teacher"
	RoleLearner Role = "learner"
)

// Room is one exercise session together with who may drive it.
type Room struct {
	Code      string
	CreatedAt time.Time
	Config    SessionConfig

	TeacherToken string

	*Session

	mu              sync.Mutex
	learnersByToken map[string]*Learner
	learnersByID    map[string]*Learner
}

type RoomManager struct {
	mu     sync.RWMutex
	rooms  map[string]*Room
	active string // most recently created room, for single-session mode
	rng    *rand.Rand
	newGen func(cfg SessionConfig) RoundSource
}

func NewRoomManager() *RoomManager {
	return &RoomManager{
		rooms: make(map[string]*Room),
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		newGen: func(cfg SessionConfig) RoundSource {
			return NewGenerator(nil, cfg.SubtractionRatio)
		},
	}
}

// CreateSession opens a room in the intro phase and returns its join code and
// the teacher token.
func (rm *RoomManager) CreateSession(cfg SessionConfig) (code string, teacherToken string, err error) {
	sess, err := NewSession(cfg, rm.newGen(cfg))
	if err != nil {
		return "", "", err
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()

	code = rm.randomCode(5)
	for rm.rooms[code] != nil {
		code = rm.randomCode(5)
	}
	teacherToken = uuid.NewString()
	rm.rooms[code] = &Room{
		Code:            code,
		CreatedAt:       time.Now().UTC(),
		Config:          cfg,
		TeacherToken:    teacherToken,
		Session:         sess,
		learnersByToken: make(map[string]*Learner),
		learnersByID:    make(map[string]*Learner),
	}
	rm.active = code
	return code, teacherToken, nil
}

func (rm *RoomManager) Get(code string) (*Room, error) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	r := rm.rooms[code]
	if r == nil {
		return nil, ErrSessionNotFound
	}
	return r, nil
}

func (rm *RoomManager) Active() (string, *Room) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	if rm.active == "" {
		return "", nil
	}
	return rm.active, rm.rooms[rm.active]
}

// Close forgets a room.
func (rm *RoomManager) Close(code string) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	delete(rm.rooms, code)
	if rm.active == code {
		rm.active = ""
	}
}

func (rm *RoomManager) randomCode(n int) string {
	letters := []rune("ABCDEFGHJKLMNPQRSTUVWXYZ23456789")
	b := make([]rune, n)
	for i := range b {
		b[i] = letters[rm.rng.Intn(len(letters))]
	}
	return string(b)
}

// Join registers a learner and returns their id and token.
func (r *Room) Join(name string) (learnerID, learnerToken string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l := &Learner{ID: uuid.NewString(), Name: name, JoinedAt: time.Now().UTC()}
	token := uuid.NewString()
	r.learnersByToken[token] = l
	r.learnersByID[l.ID] = l
	return l.ID, token
}

// Authorize resolves a token to its role on the room.
func (r *Room) Authorize(token string) (Role, error) {
	if token != "" && token == r.TeacherToken {
		return RoleTeacher, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if token != "" && r.learnersByToken[token] != nil {
		return RoleLearner, nil
	}
	return "", ErrUnauthorized
}

func (r *Room) LearnerIDByToken(token string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	l := r.learnersByToken[token]
	if l == nil {
		return ""
	}
	return l.ID
}

func (r *Room) Learners() []*Learner {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Learner, 0, len(r.learnersByID))
	for _, l := range r.learnersByID {
		out = append(out, &Learner{ID: l.ID, Name: l.Name, JoinedAt: l.JoinedAt})
	}
	return out
}
