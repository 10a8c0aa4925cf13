// Package security 提供應用程式的安全功能。
package security

import (
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/doyensec/safeurl"
)

// allowedSchemes 是對外請求允許的 URL scheme。
var allowedSchemes = []string{"https"}

// blockedNetworks 是對外請求封鎖的網段。
// 套件初始化時解析一次，供 ValidateEndpoint 檢查使用。
// safeurl 會在 net.Dialer 層驗證 DNS 解析後的 IP，
// 連 DNS rebinding 都會被擋下。
var blockedNetworks []net.IPNet

func init() {
	cidrs := []string{
		// 私有網段 (RFC 1918)
		"10.0.0.0/8",
		"172.16.0.0/12",
		"192.168.0.0/16",
		// 迴路位址 (RFC 1122)
		"127.0.0.0/8",
		// 連結本地 (RFC 3927)，含雲端 metadata IP (169.254.169.254)
		"169.254.0.0/16",
		"0.0.0.0/8",
		// IPv6 迴路、連結本地、唯一本地
		"::1/128",
		"fe80::/10",
		"fc00::/7",
	}
	for _, cidr := range cidrs {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			panic(fmt.Sprintf("invalid CIDR in blockedNetworks: %s: %v", cidr, err))
		}
		blockedNetworks = append(blockedNetworks, *network)
	}
}

// NewOutboundClient 產生對外呼叫 LINE API 用的 HTTP 用戶端。
// API 端點可由環境變數覆寫，所以正式用戶端以 safeurl 包裝：
// 私有網段、迴路位址與 metadata IP 的請求一律被擋下。
func NewOutboundClient(timeout time.Duration) *http.Client {
	config := safeurl.GetConfigBuilder().
		SetTimeout(timeout).
		SetAllowedSchemes(allowedSchemes...).
		SetAllowedPorts(443).
		Build()

	wrappedClient := safeurl.Client(config)
	return wrappedClient.Client
}

// ValidateEndpoint 在送出請求前靜態驗證 API 端點 URL。
// 這是 DNS 解析前的檢查，解析後的 IP 由 NewOutboundClient
// 的 Dialer 驗證把關。
func ValidateEndpoint(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("empty URL")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	scheme := strings.ToLower(parsed.Scheme)
	if !isAllowedScheme(scheme) {
		return fmt.Errorf("disallowed scheme: %s (allowed: %v)", scheme, allowedSchemes)
	}

	host := parsed.Hostname()
	if host == "" {
		return fmt.Errorf("empty host in URL: %s", rawURL)
	}

	if ip := net.ParseIP(host); ip != nil {
		if isBlockedIP(ip) {
			return fmt.Errorf("blocked IP address: %s", ip.String())
		}
		return nil
	}

	if strings.EqualFold(host, "localhost") {
		return fmt.Errorf("blocked host: %s", host)
	}

	return nil
}

// isAllowedScheme 驗證 URL scheme 是否在允許清單內。
func isAllowedScheme(scheme string) bool {
	for _, allowed := range allowedSchemes {
		if strings.EqualFold(scheme, allowed) {
			return true
		}
	}
	return false
}

// isBlockedIP 驗證 IP 是否落在封鎖網段內。
func isBlockedIP(ip net.IP) bool {
	for _, network := range blockedNetworks {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}
