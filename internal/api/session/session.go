package session

import (
	"fmt"
	"net/http"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"github.com/ERIC-757875/TutorHub/config"
)

const (
	// CookieName 会话 Cookie 名
	CookieName = "tutorhub_session"

	authenticatedKey = "authenticated"
)

// Manager 基于 Cookie 的会话管理，只保存“已通过访问密码”这一个标记
type Manager struct {
	store sessions.Store
}

// NewManager 创建会话管理器
// 未配置 session_key 时随机生成，进程重启后所有会话失效
func NewManager(cfg *config.GateConfig, logger *zap.Logger) (*Manager, error) {
	key := []byte(cfg.SessionKey)
	if len(key) == 0 {
		key = securecookie.GenerateRandomKey(32)
		if key == nil {
			return nil, fmt.Errorf("生成会话密钥失败")
		}
		logger.Warn("未配置 gate.session_key，已随机生成，重启后需重新输入访问密码")
	}

	store := sessions.NewCookieStore(key)
	store.Options = &sessions.Options{
		Path:     "/",
		Domain:   cfg.Cookie.Domain,
		MaxAge:   0, // 浏览器会话级
		Secure:   cfg.Cookie.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	return &Manager{store: store}, nil
}

// NewManagerWithStore 使用指定的 Store（测试用）
func NewManagerWithStore(store sessions.Store) *Manager {
	return &Manager{store: store}
}

// Authenticated 当前请求是否已通过访问密码
// Cookie 损坏或签名不符时视为未通过
func (m *Manager) Authenticated(r *http.Request) bool {
	sess, err := m.store.Get(r, CookieName)
	if err != nil {
		return false
	}
	ok, _ := sess.Values[authenticatedKey].(bool)
	return ok
}

// Grant 标记当前会话已通过
func (m *Manager) Grant(w http.ResponseWriter, r *http.Request) error {
	sess, _ := m.store.Get(r, CookieName) // 旧 Cookie 无效时返回新会话
	sess.Values[authenticatedKey] = true
	return sess.Save(r, w)
}

// Revoke 清除会话
func (m *Manager) Revoke(w http.ResponseWriter, r *http.Request) error {
	sess, _ := m.store.Get(r, CookieName)
	delete(sess.Values, authenticatedKey)
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}
