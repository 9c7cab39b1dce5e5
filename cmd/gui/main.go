// Demo host shell: a small fyne window that consumes the bridge the way a
// real application would. It probes availability to decide whether to offer
// the feature, then runs the ceremony from a button and surfaces the outcome
// on the UI thread.
package main

import (
	"context"
	"errors"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/revlabs/localauth"
)

func availabilityText(avail localauth.Availability) string {
	return fmt.Sprintf("Biometrics: %v\nDevice credentials: %v\nAvailable: %v",
		avail.Biometrics, avail.DeviceCredentials, avail.Available)
}

func main() {
	a := app.New()
	w := a.NewWindow("Local Authentication")

	// Outcomes are delivered through fyne.Do so the dialog calls below run
	// on the UI thread.
	svc := localauth.New(localauth.Config{Deliver: fyne.Do})
	defer svc.Close()

	status := widget.NewLabel(availabilityText(svc.Check()))

	authBtn := widget.NewButton("Authenticate", nil)
	authBtn.OnTapped = func() {
		avail := svc.Check()
		status.SetText(availabilityText(avail))
		if !avail.Available {
			dialog.ShowInformation("Authentication", "No authentication method is available on this device.", w)
			return
		}

		authBtn.Disable()
		svc.Authenticate(context.Background(), localauth.PromptConfig{
			Title:    "Demo shell",
			Subtitle: "Authenticate to continue in the demo shell",
		}, func(o localauth.Outcome) {
			authBtn.Enable()
			if o.Success {
				dialog.ShowInformation("Authentication", "Authenticated.", w)
				return
			}
			dialog.ShowError(errors.New(o.Reason), w)
		})
	}

	refreshBtn := widget.NewButton("Refresh availability", func() {
		status.SetText(availabilityText(svc.Check()))
	})

	w.SetContent(container.NewVBox(
		widget.NewLabelWithStyle("Device authentication", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		status,
		authBtn,
		refreshBtn,
	))
	w.Resize(fyne.NewSize(380, 240))
	w.ShowAndRun()
}
