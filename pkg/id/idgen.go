package id

import (
	"net"
	"time"

	"github.com/go-courier/snowflakeid"
	"github.com/go-courier/snowflakeid/workeridutil"
)

var startTime, _ = time.Parse(time.RFC3339, "2020-01-01T00:00:00Z")
var sff = snowflakeid.NewSnowflakeFactory(16, 8, 5, startTime)

type Gen interface {
	ID() (uint64, error)
}

type OptionFunc = func(o *option)

type option struct {
	ip net.IP
}

// WithIP derives the worker id from ip instead of the exposed IP of the host.
// Processes writing one catalog need distinct ips.
func WithIP(ip net.IP) OptionFunc {
	return func(o *option) {
		o.ip = ip
	}
}

func New(optFns ...OptionFunc) (Gen, error) {
	o := &option{}
	for i := range optFns {
		optFns[i](o)
	}
	if o.ip == nil {
		o.ip = ResolveExposedIP()
	}
	return sff.NewSnowflake(workeridutil.WorkerIDFromIP(o.ip))
}
