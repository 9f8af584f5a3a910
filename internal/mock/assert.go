package mock

import "github.com/vaultwire/walletcore/internal/serverclient"

var _ serverclient.Transport = (*MockServerTransport)(nil)
