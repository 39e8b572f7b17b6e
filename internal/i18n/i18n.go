package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// LocaleZH 简体中文
	LocaleZH = "zh-CN"
	// LocaleEN 英文
	LocaleEN = "en"

	defaultLocale = LocaleZH
)

var catalogs = map[string]map[string]string{
	LocaleZH: {
		"error.internal":               "服务器内部错误",
		"error.bad_request":            "请求参数错误",
		"error.validation_failed":      "参数校验失败",
		"error.not_found":              "资源不存在",
		"error.unauthorized":           "未授权访问",
		"error.forbidden":              "无权限访问",
		"error.auth_header_missing":    "缺少认证信息",
		"error.auth_header_invalid":    "认证信息格式错误",
		"error.token_invalid":          "登录凭证无效",
		"error.token_revoked":          "登录凭证已失效",
		"error.jwt_secret_missing":     "服务端认证配置缺失",
		"error.user_disabled":          "账号已被禁用",
		"error.rate_limited":           "请求过于频繁，请 %d 秒后重试",
		"error.rate_limit_unavailable": "限流服务暂不可用",
		"error.login_too_many":         "登录尝试过于频繁，请 %d 秒后重试",
		"error.spin_too_many":          "抽奖过于频繁，请 %d 秒后重试",
		"error.invalid_credentials":    "用户名或密码错误",
		"error.username_taken":         "用户名已被占用",
		"error.email_exists":           "邮箱已被注册",
		"error.password_too_weak":      "密码强度不足",
		"error.user_id_invalid":        "用户标识无效",
		"error.user_id_type_invalid":   "用户标识类型错误",
		"error.admin_id_invalid":       "管理员标识无效",
		"error.admin_id_type_invalid":  "管理员标识类型错误",

		"error.password_min_length":      "密码长度至少 %d 位",
		"error.password_require_upper":   "密码需包含大写字母",
		"error.password_require_lower":   "密码需包含小写字母",
		"error.password_require_number":  "密码需包含数字",
		"error.password_require_special": "密码需包含特殊字符",

		"error.campaign_not_found":  "活动不存在",
		"error.campaign_inactive":   "活动未开启或不在有效期内",
		"error.quota_exhausted":     "抽奖次数已用完",
		"error.no_prizes_available": "奖品已抽完",
		"error.spin_conflict":       "当前参与人数过多，请稍后再试",
		"error.campaign_has_spins":  "活动已产生抽奖记录，无法删除",
		"error.prize_invalid":       "奖品配置不合法",
		"error.campaign_window":     "活动时间区间不合法",

		"msg.spin_success": "抽奖成功",
	},
	LocaleEN: {
		"error.internal":               "internal server error",
		"error.bad_request":            "invalid request",
		"error.validation_failed":      "validation failed",
		"error.not_found":              "resource not found",
		"error.unauthorized":           "unauthorized",
		"error.forbidden":              "forbidden",
		"error.auth_header_missing":    "missing authorization header",
		"error.auth_header_invalid":    "malformed authorization header",
		"error.token_invalid":          "invalid token",
		"error.token_revoked":          "token revoked",
		"error.jwt_secret_missing":     "server auth misconfigured",
		"error.user_disabled":          "account disabled",
		"error.rate_limited":           "too many requests, retry in %d seconds",
		"error.rate_limit_unavailable": "rate limiter unavailable",
		"error.login_too_many":         "too many login attempts, retry in %d seconds",
		"error.spin_too_many":          "too many spins, retry in %d seconds",
		"error.invalid_credentials":    "invalid username or password",
		"error.username_taken":         "username already taken",
		"error.email_exists":           "email already registered",
		"error.password_too_weak":      "password too weak",
		"error.user_id_invalid":        "invalid user id",
		"error.user_id_type_invalid":   "invalid user id type",
		"error.admin_id_invalid":       "invalid admin id",
		"error.admin_id_type_invalid":  "invalid admin id type",

		"error.password_min_length":      "password must be at least %d characters",
		"error.password_require_upper":   "password must contain an uppercase letter",
		"error.password_require_lower":   "password must contain a lowercase letter",
		"error.password_require_number":  "password must contain a digit",
		"error.password_require_special": "password must contain a special character",

		"error.campaign_not_found":  "campaign not found",
		"error.campaign_inactive":   "campaign is not active",
		"error.quota_exhausted":     "spin quota exhausted",
		"error.no_prizes_available": "no prizes available",
		"error.spin_conflict":       "too many players right now, try again later",
		"error.campaign_has_spins":  "campaign already has spin records",
		"error.prize_invalid":       "invalid prize configuration",
		"error.campaign_window":     "invalid campaign time window",

		"msg.spin_success": "spin succeeded",
	},
}

// T 按语言查找文案，未命中时回退默认语言，再回退 key 本身
func T(locale, key string) string {
	if catalog, ok := catalogs[locale]; ok {
		if msg, ok := catalog[key]; ok {
			return msg
		}
	}
	if locale != defaultLocale {
		if msg, ok := catalogs[defaultLocale][key]; ok {
			return msg
		}
	}
	return key
}

// Sprintf 按语言查找文案并格式化参数
func Sprintf(locale, key string, args ...interface{}) string {
	template := T(locale, key)
	if len(args) == 0 {
		return template
	}
	return fmt.Sprintf(template, args...)
}

// ResolveLocale 从请求中解析语言，优先 lang 参数，其次 Accept-Language
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return defaultLocale
	}
	if lang := strings.TrimSpace(c.Query("lang")); lang != "" {
		if normalized, ok := normalizeLocale(lang); ok {
			return normalized
		}
	}
	acceptLanguage := c.GetHeader("Accept-Language")
	for _, part := range strings.Split(acceptLanguage, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if normalized, ok := normalizeLocale(tag); ok {
			return normalized
		}
	}
	return defaultLocale
}

func normalizeLocale(tag string) (string, bool) {
	lower := strings.ToLower(tag)
	switch {
	case strings.HasPrefix(lower, "zh"):
		return LocaleZH, true
	case strings.HasPrefix(lower, "en"):
		return LocaleEN, true
	default:
		return "", false
	}
}
