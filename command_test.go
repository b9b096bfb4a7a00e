package pickyport_test

import (
	"github.com/ambertests/pickyport"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Command", func() {
	Describe("String", func() {
		It("masks env values and renders stdin redirection", func() {
			cmd := pickyport.Command{
				Path:  "mysql",
				Args:  []string{"-hdb.example.com", "-uroot", "appdb"},
				Env:   []string{"MYSQL_PWD=topsecret"},
				Stdin: "/tmp/dump.sql",
			}

			line := cmd.String()
			Expect(line).To(Equal("MYSQL_PWD=**** mysql -hdb.example.com -uroot appdb < /tmp/dump.sql"))
			Expect(line).NotTo(ContainSubstring("topsecret"))
		})

		It("quotes arguments that would need quoting in a shell", func() {
			cmd := pickyport.Command{
				Path: "mysql",
				Args: []string{"-e", "DROP DATABASE IF EXISTS `x`; CREATE DATABASE `x`;"},
			}

			Expect(cmd.String()).To(Equal("mysql -e 'DROP DATABASE IF EXISTS `x`; CREATE DATABASE `x`;'"))
		})
	})
})
