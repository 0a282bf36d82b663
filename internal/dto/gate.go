package dto

// LoginRequest 访问密码，支持表单与 JSON
type LoginRequest struct {
	Secret string `json:"secret" form:"secret"`
}

// LoginResponse 登录结果
type LoginResponse struct {
	Authenticated bool `json:"authenticated"`
}
