package scpi_test

import (
	"bufio"
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/lightbench/bristol671/internal/scpi"
	"github.com/stretchr/testify/require"
)

// replyWith reads command lines and answers each with the given raw
// bytes. An empty reply keeps the host silent.
func replyWith(t *testing.T, host net.Conn, reply string) <-chan string {
	t.Helper()

	received := make(chan string, 8)

	go func() {
		sc := bufio.NewScanner(host)
		for sc.Scan() {
			received <- sc.Text()

			if reply == "" {
				continue
			}

			if _, err := host.Write([]byte(reply)); err != nil {
				return
			}
		}
	}()

	return received
}

func TestExecRoundTrip(t *testing.T) {
	conn, host := net.Pipe()
	received := replyWith(t, host, "42\n")

	client := scpi.NewClient(conn, scpi.Options{Timeout: time.Second})

	reply, err := client.Exec(context.Background(), "*ESR?")
	require.NoError(t, err)
	require.Equal(t, "42", reply)
	require.Equal(t, "*ESR?", <-received)

	require.NoError(t, client.Close())
}

func TestExecStripsCarriageReturn(t *testing.T) {
	conn, host := net.Pipe()
	replyWith(t, host, "1560.123456\r\n")

	client := scpi.NewClient(conn, scpi.Options{Timeout: time.Second})

	reply, err := client.Exec(context.Background(), "FETCH:WAVELENGTH?")
	require.NoError(t, err)
	require.Equal(t, "1560.123456", reply)

	require.NoError(t, client.Close())
}

func TestExecTimesOutOnSilentInstrument(t *testing.T) {
	conn, host := net.Pipe()
	replyWith(t, host, "")

	client := scpi.NewClient(conn, scpi.Options{Timeout: 150 * time.Millisecond})

	started := time.Now()
	_, err := client.Exec(context.Background(), "FETCH:WAVELENGTH?")

	require.Error(t, err)
	require.True(t, errors.Is(err, scpi.ErrReadTimeout))
	require.True(t, time.Since(started) >= 150*time.Millisecond)

	require.NoError(t, client.Close())
}

func TestExecHonorsContextCancellation(t *testing.T) {
	conn, host := net.Pipe()
	replyWith(t, host, "")

	client := scpi.NewClient(conn, scpi.Options{Timeout: 5 * time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(60 * time.Millisecond)
		cancel()
	}()

	_, err := client.Exec(ctx, "FETCH:WAVELENGTH?")
	require.Error(t, err)
	require.True(t, errors.Is(err, context.Canceled))

	require.NoError(t, client.Close())
}

func TestExecHonorsContextDeadline(t *testing.T) {
	conn, host := net.Pipe()
	replyWith(t, host, "")

	client := scpi.NewClient(conn, scpi.Options{Timeout: 5 * time.Second})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	started := time.Now()
	_, err := client.Exec(ctx, "*OPC?")

	require.Error(t, err)
	require.True(t, errors.Is(err, scpi.ErrReadTimeout))
	require.True(t, time.Since(started) < 2*time.Second)

	require.NoError(t, client.Close())
}

func TestSendWritesTerminatedCommand(t *testing.T) {
	conn, host := net.Pipe()
	received := replyWith(t, host, "")

	client := scpi.NewClient(conn, scpi.Options{Timeout: time.Second})

	require.NoError(t, client.Send(context.Background(), "*CLS"))
	require.Equal(t, "*CLS", <-received)

	require.NoError(t, client.Close())
}

func TestClientRejectsUseAfterClose(t *testing.T) {
	conn, _ := net.Pipe()

	client := scpi.NewClient(conn, scpi.Options{})
	require.NoError(t, client.Close())

	err := client.Send(context.Background(), "*RST")
	require.True(t, errors.Is(err, scpi.ErrClosed))

	_, err = client.Exec(context.Background(), "*ESR?")
	require.True(t, errors.Is(err, scpi.ErrClosed))

	require.True(t, errors.Is(client.Close(), scpi.ErrClosed))
}
