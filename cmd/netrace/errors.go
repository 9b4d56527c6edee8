// Copyright: This file is part of netrace, released under https://github.com/netrace/netrace/blob/main/LICENSE

package main

import "errors"

var errNoConfig = errors.New("no configuration: use --config or set $" + configEnv)
