package pickyport_test

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/ambertests/pickyport"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/gbytes"
)

var _ = Describe("ShellRunner", func() {
	var (
		out  *gbytes.Buffer
		errs *gbytes.Buffer
	)

	BeforeEach(func() {
		out = gbytes.NewBuffer()
		errs = gbytes.NewBuffer()
	})

	newRunner := func(mode pickyport.RunMode) pickyport.Runner {
		return pickyport.NewShellRunner(mode, pickyport.NewReporterTo(mode.Quiet, out, errs))
	}

	Describe("dry-run", func() {
		It("prints the command without spawning anything", func() {
			runner := newRunner(pickyport.RunMode{DryRun: true})

			err := runner.Run(pickyport.Command{
				Echo: "Dumping...",
				Path: "/definitely/not/a/real/binary",
				Args: []string{"--flag"},
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(gbytes.Say("Dumping..."))
			Expect(out).To(gbytes.Say("/definitely/not/a/real/binary --flag"))
		})
	})

	Describe("normal execution", func() {
		It("returns nil for a zero exit", func() {
			runner := newRunner(pickyport.RunMode{})

			err := runner.Run(pickyport.Command{Echo: "noop", Path: "true"})
			Expect(err).NotTo(HaveOccurred())
		})

		It("wraps a non-zero exit in an ExecutionError with the stderr text", func() {
			runner := newRunner(pickyport.RunMode{})

			err := runner.Run(pickyport.Command{
				Echo: "failing",
				Path: "sh",
				Args: []string{"-c", "echo boom >&2; exit 3"},
			})

			var execErr *pickyport.ExecutionError
			Expect(errors.As(err, &execErr)).To(BeTrue())
			Expect(execErr.ExitCode).To(Equal(3))
			Expect(execErr.Stderr).To(Equal("boom"))
			Expect(execErr.Command).To(ContainSubstring("sh -c"))
		})

		It("reports an unstartable command as an ExecutionError", func() {
			runner := newRunner(pickyport.RunMode{})

			err := runner.Run(pickyport.Command{Echo: "x", Path: "/definitely/not/a/real/binary"})

			var execErr *pickyport.ExecutionError
			Expect(errors.As(err, &execErr)).To(BeTrue())
			Expect(execErr.ExitCode).To(Equal(-1))
		})

		It("passes extra env to the child", func() {
			runner := newRunner(pickyport.RunMode{})

			err := runner.Run(pickyport.Command{
				Echo: "env check",
				Path: "sh",
				Args: []string{"-c", `test "$MYSQL_PWD" = sekrit`},
				Env:  []string{"MYSQL_PWD=sekrit"},
			})
			Expect(err).NotTo(HaveOccurred())
		})

		It("feeds the stdin file to the child", func() {
			dir, err := os.MkdirTemp("", "pickyport-runner")
			Expect(err).NotTo(HaveOccurred())
			defer os.RemoveAll(dir)

			script := filepath.Join(dir, "in.txt")
			Expect(os.WriteFile(script, []byte("hello"), 0644)).To(Succeed())

			runner := newRunner(pickyport.RunMode{})
			err = runner.Run(pickyport.Command{
				Echo:  "stdin check",
				Path:  "sh",
				Args:  []string{"-c", `test "$(cat)" = hello`},
				Stdin: script,
			})
			Expect(err).NotTo(HaveOccurred())
		})

		It("fails with a FileError when the stdin file is unreadable", func() {
			runner := newRunner(pickyport.RunMode{})

			err := runner.Run(pickyport.Command{
				Echo:  "x",
				Path:  "true",
				Stdin: "/definitely/not/a/real/file.sql",
			})

			var fileErr *pickyport.FileError
			Expect(errors.As(err, &fileErr)).To(BeTrue())
		})
	})

	Describe("quiet", func() {
		It("suppresses echo lines", func() {
			runner := newRunner(pickyport.RunMode{Quiet: true})

			err := runner.Run(pickyport.Command{Echo: "should not appear", Path: "true"})
			Expect(err).NotTo(HaveOccurred())
			Expect(string(out.Contents())).To(BeEmpty())
		})
	})

	Describe("debug", func() {
		It("prints the command line and streams tool output", func() {
			runner := newRunner(pickyport.RunMode{Debug: true})

			err := runner.Run(pickyport.Command{
				Echo: "debug check",
				Path: "sh",
				Args: []string{"-c", "echo tool-output"},
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(gbytes.Say("debug check"))
			Expect(out).To(gbytes.Say("sh -c"))
			Expect(out).To(gbytes.Say("tool-output"))
		})
	})
})
