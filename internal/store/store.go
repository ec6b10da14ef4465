// Package store はユーザーとTodoを保持するプロセス内ストアを提供する。
//
// 永続化は行わず、ストアの寿命はプロセスの寿命と等しい。
// 検索はすべて小さなスライスに対する線形走査で行う。
//
// Storeは単一の粗いロックを公開する。HTTP層はリクエストごとに
// 検証から更新、レスポンスのエンコードまでをロック内で実行するため、
// このパッケージのメソッドは呼び出し側がロックを保持している前提で動作する。
package store

import (
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/todoman/internal/model"
)

// ErrNotFound はユーザーが存在しない場合にListTodosが返すエラー。
var ErrNotFound = errors.New("store: user not found")

// Store はすべてのユーザーと、その所有するTodoを保持する。
type Store struct {
	mu    sync.Mutex
	users []*model.User
	now   func() time.Time
	newID func() string
}

// Option はStoreの生成オプション。
type Option func(*Store)

// WithClock はcreated_atの採番に使用する時計を差し替える。
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithIDGenerator はID採番関数を差し替える。
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) {
		s.newID = newID
	}
}

// New は空のStoreを生成する。
func New(opts ...Option) *Store {
	s := &Store{
		users: []*model.User{},
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Lock はストア全体のロックを取得する。
func (s *Store) Lock() {
	s.mu.Lock()
}

// Unlock はストア全体のロックを解放する。
func (s *Store) Unlock() {
	s.mu.Unlock()
}

// --- 検索 ---

// FindUserByUsername はユーザー名に一致する最初のユーザーを返す。
// 見つからない場合はnilを返す。
func (s *Store) FindUserByUsername(username string) *model.User {
	for _, u := range s.users {
		if u.Username == username {
			return u
		}
	}
	return nil
}

// FindUserByID はIDに一致する最初のユーザーを返す。
// 見つからない場合はnilを返す。
func (s *Store) FindUserByID(id string) *model.User {
	for _, u := range s.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

// UserExistsByUsername はユーザー名に一致するユーザーが存在するかを返す。
func (s *Store) UserExistsByUsername(username string) bool {
	return s.FindUserByUsername(username) != nil
}

// UserExistsByID はIDに一致するユーザーが存在するかを返す。
func (s *Store) UserExistsByID(id string) bool {
	return s.FindUserByID(id) != nil
}

// ListTodos はユーザー名で指定したユーザーのTodo一覧を返す。
// ユーザーが存在しない場合はErrNotFoundを返す。
func (s *Store) ListTodos(username string) ([]*model.Todo, error) {
	u := s.FindUserByUsername(username)
	if u == nil {
		return nil, ErrNotFound
	}
	return u.Todos, nil
}

// TodoExists はユーザーがtodoIDのTodoを所有しているかを返す。
// ユーザーが存在しない場合はfalseを返す。
func (s *Store) TodoExists(username, todoID string) bool {
	return s.FindTodo(username, todoID) != nil
}

// FindTodo はユーザーの所有するTodoからtodoIDに一致するものを返す。
// ユーザーまたはTodoが存在しない場合はnilを返す。
func (s *Store) FindTodo(username, todoID string) *model.Todo {
	todos, err := s.ListTodos(username)
	if err != nil {
		return nil
	}
	for _, t := range todos {
		if t.ID == todoID {
			return t
		}
	}
	return nil
}

// --- 更新 ---

// Users は登録順のユーザー一覧を返す。
func (s *Store) Users() []*model.User {
	return s.users
}

// CreateUser は新しいユーザーを作成して追加する。
// ユーザー名が既に使用されている場合はストアを変更せずにエラーを返す。
func (s *Store) CreateUser(name, username string) (*model.User, error) {
	if s.UserExistsByUsername(username) {
		return nil, model.NewUsernameTakenError()
	}

	u := &model.User{
		ID:       s.newID(),
		Name:     name,
		Username: username,
		Pro:      false,
		Todos:    []*model.Todo{},
	}
	s.users = append(s.users, u)
	return u, nil
}

// AddTodo はユーザーのTodo一覧の末尾に新しいTodoを追加する。
// 上限の判定は検証チェーン側で行う。
func (s *Store) AddTodo(u *model.User, title string, deadline time.Time) *model.Todo {
	t := &model.Todo{
		ID:        s.newID(),
		Title:     title,
		Deadline:  deadline,
		Done:      false,
		CreatedAt: s.now().UTC(),
	}
	u.Todos = append(u.Todos, t)
	return t
}

// RemoveTodo はユーザーのTodo一覧からtを取り除く。
// 一覧にtが含まれていない場合はfalseを返す。
func (s *Store) RemoveTodo(u *model.User, t *model.Todo) bool {
	idx := slices.Index(u.Todos, t)
	if idx == -1 {
		return false
	}
	u.Todos = slices.Delete(u.Todos, idx, idx+1)
	return true
}
