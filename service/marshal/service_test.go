package marshal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/xfer/model/buffer"
	"github.com/viant/xfer/model/invocation"
	"github.com/viant/xfer/model/types"
	"github.com/viant/xfer/policy"
)

type point struct {
	X, Y int
	Tags []string
}

func newService(t *testing.T, options ...Option) *Service {
	srv, err := New(options...)
	require.NoError(t, err)
	return srv
}

func TestResolve(t *testing.T) {
	copyRaw := &policy.Policy{RawBytes: policy.RawBytesCopy}
	testCases := []struct {
		name     string
		policy   *policy.Policy
		value    interface{}
		explicit invocation.Directive
		expect   invocation.Directive
	}{
		{name: "buffer default", value: buffer.New(nil), expect: invocation.DirectiveCopy},
		{name: "buffer annotated", value: buffer.New(nil), explicit: invocation.DirectiveTransfer, expect: invocation.DirectiveTransfer},
		{name: "buffer policy", policy: &policy.Policy{BufferDefault: invocation.DirectiveTransfer}, value: buffer.New(nil), expect: invocation.DirectiveTransfer},
		{name: "raw bytes default", value: []byte("x"), expect: invocation.DirectiveTransfer},
		{name: "raw bytes copy policy", policy: copyRaw, value: []byte("x"), expect: invocation.DirectiveCopy},
		{name: "raw bytes annotated", policy: copyRaw, value: []byte("x"), explicit: invocation.DirectiveTransfer, expect: invocation.DirectiveTransfer},
		{name: "scalar", value: 12, expect: invocation.DirectiveCopy},
		{name: "struct", value: point{}, expect: invocation.DirectiveCopy},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, Resolve(tc.policy, tc.value, tc.explicit))
		})
	}
}

func TestService_TransferBuffer(t *testing.T) {
	srv := newService(t)
	src := buffer.New([]byte("transfer me"))

	payloads, err := srv.PackArguments(context.Background(), []interface{}{src}, invocation.Transfer(0))
	require.NoError(t, err)
	assert.True(t, src.Detached())
	assert.Equal(t, invocation.DirectiveTransfer, payloads[0].Directive)

	args, err := srv.UnpackArguments(payloads)
	require.NoError(t, err)
	received, ok := args[0].(*buffer.Buffer)
	require.True(t, ok)
	data, err := received.ReadBytes()
	require.NoError(t, err)
	assert.Equal(t, []byte("transfer me"), data)

	_, err = srv.PackArguments(context.Background(), []interface{}{src}, invocation.Transfer(0))
	assert.ErrorIs(t, err, types.ErrAlreadyDetached)

	_, err = srv.PackArguments(context.Background(), []interface{}{src}, nil)
	assert.ErrorIs(t, err, types.ErrDetachedAccess)
}

func TestService_CopyBuffer(t *testing.T) {
	srv := newService(t)
	src := buffer.New([]byte("copy me"))

	payloads, err := srv.PackArguments(context.Background(), []interface{}{src}, nil)
	require.NoError(t, err)
	assert.False(t, src.Detached())

	args, err := srv.UnpackArguments(payloads)
	require.NoError(t, err)
	received := args[0].(*buffer.Buffer)
	_, err = received.WriteAt([]byte("C"), 0)
	require.NoError(t, err)

	original, err := src.ReadBytes()
	require.NoError(t, err)
	assert.Equal(t, []byte("copy me"), original)
}

func TestService_RejectedCallKeepsOwnership(t *testing.T) {
	srv := newService(t)
	first := buffer.New([]byte("first"))
	detached := buffer.New([]byte("second"))
	require.NoError(t, detached.MarkTransferred())

	_, err := srv.PackArguments(context.Background(), []interface{}{first, detached}, invocation.Transfer(0, 1))
	assert.ErrorIs(t, err, types.ErrAlreadyDetached)
	assert.False(t, first.Detached())

	_, err = srv.PackArguments(context.Background(), []interface{}{first, first}, invocation.Transfer(0, 1))
	assert.ErrorIs(t, err, types.ErrAlreadyDetached)
	assert.False(t, first.Detached())

	_, err = srv.PackArguments(context.Background(), []interface{}{first, "text"}, invocation.Transfer(0, 1))
	assert.ErrorIs(t, err, types.ErrDataClone)
	assert.False(t, first.Detached())
}

func TestService_CopyAndTransferSameBuffer(t *testing.T) {
	srv := newService(t)
	src := buffer.New([]byte("both"))
	directives := &invocation.Directives{Args: map[int]invocation.Directive{0: invocation.DirectiveTransfer, 1: invocation.DirectiveCopy}}

	payloads, err := srv.PackArguments(context.Background(), []interface{}{src, src}, directives)
	require.NoError(t, err)
	assert.True(t, src.Detached())
	assert.Equal(t, []byte("both"), payloads[0].Bytes)
	assert.Equal(t, []byte("both"), payloads[1].Bytes)
}

func TestService_RawBytes(t *testing.T) {
	testCases := []struct {
		name   string
		policy *policy.Policy
		expect invocation.Directive
	}{
		{name: "copy then transfer", policy: policy.Default(), expect: invocation.DirectiveTransfer},
		{name: "copy only", policy: &policy.Policy{RawBytes: policy.RawBytesCopy}, expect: invocation.DirectiveCopy},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newService(t, WithPolicy(tc.policy))
			src := []byte("raw")
			payloads, err := srv.PackArguments(context.Background(), []interface{}{src}, nil)
			require.NoError(t, err)
			assert.Equal(t, tc.expect, payloads[0].Directive)

			src[0] = 'R'
			args, err := srv.UnpackArguments(payloads)
			require.NoError(t, err)
			assert.Equal(t, []byte("raw"), args[0])
			assert.Equal(t, []byte("Raw"), src)
		})
	}
}

func TestService_ContextPolicy(t *testing.T) {
	srv := newService(t)
	ctx := policy.WithPolicy(context.Background(), &policy.Policy{BufferDefault: invocation.DirectiveTransfer})
	src := buffer.New([]byte("ctx"))
	_, err := srv.PackArguments(ctx, []interface{}{src}, nil)
	require.NoError(t, err)
	assert.True(t, src.Detached())
}

func TestService_Clone(t *testing.T) {
	srv := newService(t)
	now := time.Date(2024, 3, 1, 10, 20, 30, 123456789, time.UTC)
	tags := []string{"a", "b"}
	args := []interface{}{
		nil,
		"text",
		42,
		point{X: 1, Y: 2, Tags: tags},
		&point{X: 3},
		map[string]int{"k": 7},
		now,
	}

	payloads, err := srv.PackArguments(context.Background(), args, nil)
	require.NoError(t, err)
	assert.Equal(t, invocation.KindValue, payloads[1].Kind)
	assert.Equal(t, invocation.KindClone, payloads[3].Kind)
	tags[0] = "changed"

	actual, err := srv.UnpackArguments(payloads)
	require.NoError(t, err)
	assert.Nil(t, actual[0])
	assert.Equal(t, "text", actual[1])
	assert.Equal(t, 42, actual[2])
	assert.Equal(t, point{X: 1, Y: 2, Tags: []string{"a", "b"}}, actual[3])
	assert.Equal(t, &point{X: 3}, actual[4])
	assert.Equal(t, map[string]int{"k": 7}, actual[5])
	assert.True(t, now.Equal(actual[6].(time.Time)))
}

func TestService_Uncloneable(t *testing.T) {
	srv := newService(t)
	_, err := srv.PackArguments(context.Background(), []interface{}{make(chan int)}, nil)
	assert.ErrorIs(t, err, types.ErrDataClone)
}

func TestService_PackResult(t *testing.T) {
	srv := newService(t)
	ctx := context.Background()

	value := buffer.New([]byte("result"))
	payload, err := srv.PackResult(ctx, value, invocation.DirectiveAuto, invocation.DirectiveTransfer)
	require.NoError(t, err)
	assert.True(t, value.Detached())
	assert.Equal(t, invocation.DirectiveTransfer, payload.Directive)

	value = buffer.New([]byte("result"))
	payload, err = srv.PackResult(ctx, value, invocation.DirectiveCopy, invocation.DirectiveTransfer)
	require.NoError(t, err)
	assert.False(t, value.Detached())
	assert.Equal(t, invocation.DirectiveCopy, payload.Directive)

	_, err = srv.PackResult(ctx, value, invocation.DirectiveTransfer, invocation.DirectiveAuto)
	require.NoError(t, err)
	_, err = srv.PackResult(ctx, value, invocation.DirectiveTransfer, invocation.DirectiveAuto)
	assert.ErrorIs(t, err, types.ErrAlreadyDetached)

	payload, err = srv.PackResult(ctx, nil, invocation.DirectiveAuto, invocation.DirectiveAuto)
	require.NoError(t, err)
	out, err := srv.Unpack(payload)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestService_PackResultContextPolicy(t *testing.T) {
	srv := newService(t)
	ctx := policy.WithPolicy(context.Background(), &policy.Policy{RawBytes: policy.RawBytesCopy})

	payload, err := srv.PackResult(ctx, []byte("raw"), invocation.DirectiveAuto, invocation.DirectiveAuto)
	require.NoError(t, err)
	assert.Equal(t, invocation.DirectiveCopy, payload.Directive)

	payload, err = srv.PackResult(context.Background(), []byte("raw"), invocation.DirectiveAuto, invocation.DirectiveAuto)
	require.NoError(t, err)
	assert.Equal(t, invocation.DirectiveTransfer, payload.Directive)
}

type envelope struct {
	Name string
	Body *buffer.Buffer
}

func TestService_NestedBuffer(t *testing.T) {
	testCases := []struct {
		name    string
		value   func(src *buffer.Buffer) interface{}
		extract func(value interface{}) *buffer.Buffer
	}{
		{
			name:    "slice",
			value:   func(src *buffer.Buffer) interface{} { return []*buffer.Buffer{src} },
			extract: func(value interface{}) *buffer.Buffer { return value.([]*buffer.Buffer)[0] },
		},
		{
			name:    "struct field",
			value:   func(src *buffer.Buffer) interface{} { return envelope{Name: "env", Body: src} },
			extract: func(value interface{}) *buffer.Buffer { return value.(envelope).Body },
		},
		{
			name:    "map",
			value:   func(src *buffer.Buffer) interface{} { return map[string]*buffer.Buffer{"k": src} },
			extract: func(value interface{}) *buffer.Buffer { return value.(map[string]*buffer.Buffer)["k"] },
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			srv := newService(t)
			src := buffer.New([]byte("payload"))
			payloads, err := srv.PackArguments(context.Background(), []interface{}{testCase.value(src)}, nil)
			require.NoError(t, err)
			assert.Equal(t, invocation.KindClone, payloads[0].Kind)

			actual, err := srv.UnpackArguments(payloads)
			require.NoError(t, err)
			dest := testCase.extract(actual[0])
			require.NotNil(t, dest)
			data, err := dest.ReadBytes()
			require.NoError(t, err)
			assert.Equal(t, []byte("payload"), data)

			assert.Equal(t, buffer.StateOwned, src.State())
			_, err = dest.WriteAt([]byte("X"), 0)
			require.NoError(t, err)
			data, err = src.ReadBytes()
			require.NoError(t, err)
			assert.Equal(t, []byte("payload"), data)
		})
	}
}

func TestService_NestedDetachedBuffer(t *testing.T) {
	srv := newService(t)
	src := buffer.New([]byte("payload"))
	_, err := src.Detach()
	require.NoError(t, err)

	_, err = srv.PackArguments(context.Background(), []interface{}{[]*buffer.Buffer{src}}, nil)
	assert.ErrorIs(t, err, types.ErrDataClone)
	assert.ErrorIs(t, err, types.ErrDetachedAccess)
}
