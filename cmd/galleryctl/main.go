// Command galleryctl is an operator client for the gallery server: it queries
// the gRPC ops endpoint and applies database migrations.
package main

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	reflectionpb "google.golang.org/grpc/reflection/grpc_reflection_v1"
	"google.golang.org/grpc/status"

	"github.com/and161185/gallery/internal/migrate"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

var errNotServing = errors.New("not serving")

func usage(w io.Writer) {
	fmt.Fprint(w, `galleryctl
Usage:
  galleryctl [-addr HOST:PORT] [-tls [-cacert file]] <cmd> [args]

Commands:
  version
  health     [-service name] [-watch]      (grpc.health.v1 Check / Watch)
  services                                 (list services, needs -dev on the server)
  migrate    [-d dsn]                      (apply schema migrations; DATABASE_DSN)
`)
}

func loadTLS(caPath string, useTLS bool) (credentials.TransportCredentials, error) {
	if !useTLS {
		return insecure.NewCredentials(), nil
	}
	if caPath == "" {
		return credentials.NewClientTLSFromCert(nil, ""), nil
	}
	pem, err := os.ReadFile(caPath)
	if err != nil {
		return nil, err
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, errors.New("bad CA cert")
	}
	return credentials.NewTLS(&tls.Config{RootCAs: pool, MinVersion: tls.VersionTLS12}), nil
}

func dial(addr, caPath string, useTLS bool) (*grpc.ClientConn, error) {
	creds, err := loadTLS(caPath, useTLS)
	if err != nil {
		return nil, err
	}
	return grpc.NewClient(addr, grpc.WithTransportCredentials(creds))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Getenv, os.Stdout, os.Stderr))
}

// run dispatches one subcommand and returns the process exit code.
func run(ctx context.Context, args []string, getenv func(string) string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("galleryctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	addr := fs.String("addr", "localhost:8081", "ops endpoint address")
	caPath := fs.String("cacert", "", "CA cert (PEM)")
	useTLS := fs.Bool("tls", false, "use TLS")
	fs.Usage = func() { usage(stderr) }
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() < 1 {
		usage(stderr)
		return 2
	}
	cmd, rest := fs.Arg(0), fs.Args()[1:]

	var err error
	switch cmd {
	case "version":
		fmt.Fprintf(stdout, "galleryctl %s (%s)\n", version, buildDate)
		return 0

	case "health":
		sub := flag.NewFlagSet("health", flag.ContinueOnError)
		sub.SetOutput(stderr)
		service := sub.String("service", "", "service name, empty for overall status")
		watch := sub.Bool("watch", false, "stream status changes")
		if err := sub.Parse(rest); err != nil {
			return 2
		}
		err = withConn(*addr, *caPath, *useTLS, func(cc *grpc.ClientConn) error {
			if *watch {
				return watchHealth(ctx, cc, *service, stdout)
			}
			return checkHealth(ctx, cc, *service, stdout)
		})

	case "services":
		err = withConn(*addr, *caPath, *useTLS, func(cc *grpc.ClientConn) error {
			return listServices(ctx, cc, stdout)
		})

	case "migrate":
		sub := flag.NewFlagSet("migrate", flag.ContinueOnError)
		sub.SetOutput(stderr)
		dsn := sub.String("d", getenv("DATABASE_DSN"), "PostgreSQL DSN")
		if err := sub.Parse(rest); err != nil {
			return 2
		}
		if *dsn == "" {
			fmt.Fprintln(stderr, "migrate: DSN required (-d or DATABASE_DSN)")
			return 2
		}
		mctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
		defer cancel()
		if err = migrate.Up(mctx, *dsn); err == nil {
			fmt.Fprintln(stdout, "migrations applied")
		}

	default:
		fmt.Fprintf(stderr, "unknown command %q\n", cmd)
		usage(stderr)
		return 2
	}

	if err != nil {
		fail(stderr, err)
		return 1
	}
	return 0
}

func withConn(addr, caPath string, useTLS bool, fn func(*grpc.ClientConn) error) error {
	cc, err := dial(addr, caPath, useTLS)
	if err != nil {
		return err
	}
	defer cc.Close()
	return fn(cc)
}

func checkHealth(ctx context.Context, cc *grpc.ClientConn, service string, out io.Writer) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	resp, err := healthpb.NewHealthClient(cc).Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		return err
	}
	fmt.Fprintln(out, resp.GetStatus())
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return errNotServing
	}
	return nil
}

// watchHealth prints every status change until the stream or ctx ends.
func watchHealth(ctx context.Context, cc *grpc.ClientConn, service string, out io.Writer) error {
	stream, err := healthpb.NewHealthClient(cc).Watch(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		return err
	}
	for {
		resp, err := stream.Recv()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		fmt.Fprintf(out, "%s %s\n", time.Now().UTC().Format(time.RFC3339), resp.GetStatus())
	}
}

func listServices(ctx context.Context, cc *grpc.ClientConn, out io.Writer) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	stream, err := reflectionpb.NewServerReflectionClient(cc).ServerReflectionInfo(ctx)
	if err != nil {
		return err
	}
	req := &reflectionpb.ServerReflectionRequest{
		MessageRequest: &reflectionpb.ServerReflectionRequest_ListServices{ListServices: "*"},
	}
	// io.EOF on Send means the server closed the stream; Recv carries the status
	if err := stream.Send(req); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	resp, err := stream.Recv()
	if err != nil {
		return err
	}
	_ = stream.CloseSend()

	var names []string
	for _, s := range resp.GetListServicesResponse().GetService() {
		names = append(names, s.GetName())
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintln(out, n)
	}
	return nil
}

func fail(w io.Writer, err error) {
	if s, ok := status.FromError(err); ok {
		fmt.Fprintf(w, "rpc error: code=%s msg=%s\n", s.Code(), s.Message())
		return
	}
	fmt.Fprintln(w, err)
}
