package commands_test

import (
	"os"
	"path/filepath"

	"github.com/ambertests/pickyport/commands"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Run", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "pickyport-cli")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	writeConfig := func(content string) string {
		path := filepath.Join(tmpDir, "config.yml")
		Expect(os.WriteFile(path, []byte(content), 0644)).To(Succeed())
		return path
	}

	It("exits 0 for a dry run over a valid configuration", func() {
		path := writeConfig(`portages:
- ignore_tables:
  - logs
  source:
    host: db1.example.com
    user: root
    password: pw
    name: appdb
  dest:
  - host: db2.example.com
    user: root
    password: pw
    name: appdb_copy
`)

		Expect(commands.Run([]string{"-q", "-d", path})).To(Equal(commands.ExitOK))
	})

	It("exits 2 when the config file is missing", func() {
		Expect(commands.Run([]string{"-q", filepath.Join(tmpDir, "nope.yml")})).To(Equal(commands.ExitConfigError))
	})

	It("exits 2 when the configuration is invalid", func() {
		path := writeConfig(`portages:
- source:
    host: db1.example.com
    user: root
    name: appdb
  dest: []
`)

		Expect(commands.Run([]string{"-q", path})).To(Equal(commands.ExitConfigError))
	})

	It("exits 2 when the config_file argument is missing", func() {
		Expect(commands.Run(nil)).To(Equal(commands.ExitConfigError))
	})

	It("exits 0 on --help", func() {
		Expect(commands.Run([]string{"--help"})).To(Equal(commands.ExitOK))
	})
})
