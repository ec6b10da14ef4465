// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// Todosは常に非nilのスライスとして保持し、JSONでは空配列として出力する。
type User struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Username string  `json:"username"`
	Pro      bool    `json:"pro"`
	Todos    []*Todo `json:"todos"`
}

// Todo はユーザーが所有するタスクを表す。
type Todo struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Deadline  time.Time `json:"deadline"`
	Done      bool      `json:"done"`
	CreatedAt time.Time `json:"created_at"`
}

// TodoCount はユーザーが保持しているTodoの件数を返す。
func (u *User) TodoCount() int {
	return len(u.Todos)
}
