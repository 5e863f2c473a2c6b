package logger

import (
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	HostnameFieldName   = "hostname"
	RequestIDFieldName  = "request_id"
	ClientIPFieldName   = "client_ip"
	UserAgentFieldName  = "user_agent"
	TimestampFieldName  = zerolog.TimestampFieldName
	DurationFieldName   = "elapsed"
	MethodFieldName     = "method"
	PathFieldName       = "path"
	RefererFieldName    = "referer"
	statusCodeFieldName = "status_code"
	DataLengthFieldName = "data_length"
)

// RequestIDHeader is echoed back on every response.
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "request_id"

// RequestID assigns a request id, reusing an incoming X-Request-ID header.
func RequestID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id := ctx.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		ctx.Set(requestIDKey, id)
		ctx.Header(RequestIDHeader, id)
		ctx.Next()
	}
}

// GetRequestID returns the id set by RequestID, or "".
func GetRequestID(ctx *gin.Context) string {
	return ctx.GetString(requestIDKey)
}

// ErrorLogger writes handler errors as json when nothing else was written.
func ErrorLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if !c.Writer.Written() {
			json := c.Errors.JSON()
			if json != nil {
				c.JSON(-1, json)
			}
		}
	}
}

// GinLogger is a gin middleware which use zerolog.
func GinLogger() gin.HandlerFunc {
	fields := ginDefaultFieldsOrder()
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	return func(ctx *gin.Context) {
		// resolved per request so InitLogger after router setup still applies
		z := &log

		if z.GetLevel() == zerolog.Disabled {
			ctx.Next()
			return
		}

		begin := time.Now()
		path := ctx.Request.URL.Path
		raw := ctx.Request.URL.RawQuery
		if raw != "" {
			path = path + "?" + raw
		}

		ctx.Next()

		duration := time.Since(begin)
		statusCode := ctx.Writer.Status()

		var event *zerolog.Event
		switch {
		case statusCode >= 200 && statusCode < 400:
			event = z.Info()
		case statusCode >= 400 && statusCode < 500:
			event = z.Warn()
		case statusCode >= 500:
			event = z.Error()
		default:
			event = z.Trace()
		}

		for _, f := range fields {
			switch f {
			case HostnameFieldName:
				event.Str(HostnameFieldName, hostname)
			case RequestIDFieldName:
				if id := GetRequestID(ctx); id != "" {
					event.Str(RequestIDFieldName, id)
				}
			case ClientIPFieldName:
				event.Str(ClientIPFieldName, ctx.ClientIP())
			case UserAgentFieldName:
				if ua := ctx.Request.UserAgent(); len(ua) > 0 {
					event.Str(UserAgentFieldName, ua)
				}
			case MethodFieldName:
				event.Str(MethodFieldName, ctx.Request.Method)
			case PathFieldName:
				event.Str(PathFieldName, path)
			case TimestampFieldName:
				event.Time(TimestampFieldName, begin)
			case DurationFieldName:
				event.Dur(DurationFieldName+"_ms", duration)
			case RefererFieldName:
				if ref := ctx.Request.Referer(); len(ref) > 0 {
					event.Str(RefererFieldName, ref)
				}
			case statusCodeFieldName:
				event.Int(statusCodeFieldName, statusCode)
			case DataLengthFieldName:
				if ctx.Writer.Size() > 0 {
					event.Int(DataLengthFieldName, ctx.Writer.Size())
				}
			}
		}

		message := ctx.Errors.String()
		if message == "" {
			message = "Request"
		}
		event.Msg(message)
	}
}

// ginDefaultFieldsOrder defines the default order of fields.
func ginDefaultFieldsOrder() []string {
	return []string{
		HostnameFieldName,
		RequestIDFieldName,
		ClientIPFieldName,
		UserAgentFieldName,
		MethodFieldName,
		PathFieldName,
		TimestampFieldName,
		DurationFieldName,
		RefererFieldName,
		statusCodeFieldName,
		DataLengthFieldName,
	}
}
