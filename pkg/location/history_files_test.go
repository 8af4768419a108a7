package location_test

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/vignettes/pkg/location"
	"github.com/papercomputeco/vignettes/pkg/logger"
)

var _ = Describe("HistoryFiles", func() {
	var (
		dir   string
		now   time.Time
		files *location.HistoryFiles
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		now = time.Date(2025, 3, 14, 9, 26, 53, 0, time.Local)
		files = location.NewHistoryFiles(dir, logger.Nop()).WithClock(func() time.Time { return now })
	})

	listTxt := func() []string {
		matches, err := filepath.Glob(filepath.Join(dir, "*.txt"))
		Expect(err).NotTo(HaveOccurred())
		for i := range matches {
			matches[i] = filepath.Base(matches[i])
		}
		return matches
	}

	It("does nothing for an empty batch", func() {
		path, err := files.Record([]string{"", "  "})
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(BeEmpty())
		Expect(listTxt()).To(BeEmpty())
	})

	It("writes the newest file with its header and normalized names", func() {
		path, err := files.Record([]string{"ar_0501_neketaka.lvl"})
		Expect(err).NotTo(HaveOccurred())
		Expect(filepath.Base(path)).To(Equal("new_locations_20250314_092653.txt"))

		data, err := os.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal("New locations found in save processed at 2025-03-14 09:26:53:\n\nNeketaka\n"))

		latest, err := files.Latest()
		Expect(err).NotTo(HaveOccurred())
		Expect(latest).To(Equal([]string{"Neketaka"}))
	})

	It("keeps at most the newest file and the merged file", func() {
		_, err := files.Record([]string{"ar_0501_neketaka.lvl"})
		Expect(err).NotTo(HaveOccurred())

		now = now.Add(time.Minute)
		_, err = files.Record([]string{"ar_0101_port_maje.lvl", "neketaka.lvl"})
		Expect(err).NotTo(HaveOccurred())

		Expect(listTxt()).To(ConsistOf("new_locations_20250314_092753.txt", "new_locations_all_previous.txt"))

		all, err := files.All()
		Expect(err).NotTo(HaveOccurred())
		Expect(all).To(Equal([]string{"Neketaka", "Port Maje"}))

		merged, err := os.ReadFile(filepath.Join(dir, "new_locations_all_previous.txt"))
		Expect(err).NotTo(HaveOccurred())
		lines := strings.Split(string(merged), "\n")
		Expect(lines[0]).To(Equal("All previously discovered locations (merged file):"))
		Expect(lines[1]).To(Equal("Last updated: 2025-03-14 09:27:53"))
		Expect(lines[2]).To(BeEmpty())

		latest, err := files.Latest()
		Expect(err).NotTo(HaveOccurred())
		Expect(latest).To(Equal([]string{"Port Maje", "Neketaka"}))
	})

	It("compacts leftover files at startup", func() {
		write := func(name, body string) {
			Expect(os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644)).To(Succeed())
		}
		write("new_locations_20250101_000000.txt", "New locations found in save processed at x:\n\nar_0501_neketaka.lvl\n")
		write("new_locations_20250102_000000.txt", "New locations found in save processed at y:\n\n=====\nDyrford Village\n")

		Expect(files.Compact()).To(Succeed())

		Expect(listTxt()).To(ConsistOf("new_locations_20250102_000000.txt", "new_locations_all_previous.txt"))
		all, err := files.All()
		Expect(err).NotTo(HaveOccurred())
		Expect(all).To(Equal([]string{"Dyrford Village", "Neketaka"}))
	})

	It("returns nothing when no files exist", func() {
		latest, err := files.Latest()
		Expect(err).NotTo(HaveOccurred())
		Expect(latest).To(BeEmpty())

		all, err := files.All()
		Expect(err).NotTo(HaveOccurred())
		Expect(all).To(BeEmpty())

		Expect(files.Compact()).To(Succeed())
	})
})
