package platform

/*
#cgo CFLAGS: -x objective-c -fobjc-arc
#cgo LDFLAGS: -framework LocalAuthentication -framework Foundation

#import <LocalAuthentication/LocalAuthentication.h>
#import <Foundation/Foundation.h>
#import <dispatch/dispatch.h>
#include <stdlib.h>

// localauth_probe reports which LA policies can be evaluated right now.
// Bit 0: biometrics, requiring capable AND enrolled; canEvaluatePolicy
// returns NO with LAErrorBiometryNotEnrolled when hardware exists but
// nothing is enrolled, which is exactly the distinction we need.
// Bit 1: device owner authentication (passcode set, biometrics optional).
static int localauth_probe(void) {
	@autoreleasepool {
		int flags = 0;
		NSError *err = nil;

		LAContext *bio = [[LAContext alloc] init];
		if (bio && [bio canEvaluatePolicy:LAPolicyDeviceOwnerAuthenticationWithBiometrics error:&err]) {
			flags |= 1;
		}
		[bio invalidate];

		err = nil;
		LAContext *cred = [[LAContext alloc] init];
		if (cred && [cred canEvaluatePolicy:LAPolicyDeviceOwnerAuthentication error:&err]) {
			flags |= 2;
		}
		[cred invalidate];

		return flags;
	}
}

// localauth_present runs one policy evaluation and blocks until the OS
// delivers the terminal reply. The prompt owns its own lifecycle, so there
// is deliberately no timeout on the semaphore wait.
//
// Returns 0 on success, otherwise the LAError code (or a negative sentinel
// below -200 for local failures).
static int localauth_present(int combined, const char *cReason, const char *cCancel, int setFallback, const char *cFallback) {
	@autoreleasepool {
		NSString *reason = cReason ? [[NSString alloc] initWithUTF8String:cReason] : @"Please authenticate to continue";
		if (!reason) {
			reason = @"Please authenticate to continue";
		}

		LAContext *context = [[LAContext alloc] init];
		if (!context) {
			return -200;
		}
		if (cCancel && cCancel[0] != '\0') {
			context.localizedCancelTitle = [[NSString alloc] initWithUTF8String:cCancel];
		}
		if (setFallback) {
			// An empty fallback title hides the "Enter Password" button.
			context.localizedFallbackTitle = cFallback ? [[NSString alloc] initWithUTF8String:cFallback] : @"";
		}

		LAPolicy policy = combined ? LAPolicyDeviceOwnerAuthentication : LAPolicyDeviceOwnerAuthenticationWithBiometrics;

		NSError *canError = nil;
		if (![context canEvaluatePolicy:policy error:&canError]) {
			[context invalidate];
			return canError ? (int)[canError code] : -201;
		}

		dispatch_semaphore_t sema = dispatch_semaphore_create(0);

		__block BOOL success = NO;
		__block NSError *evalError = nil;

		[context evaluatePolicy:policy
		        localizedReason:reason
		                  reply:^(BOOL evaluated, NSError * _Nullable error) {
		                      success = evaluated;
		                      evalError = error;
		                      dispatch_semaphore_signal(sema);
		                  }];

		dispatch_semaphore_wait(sema, DISPATCH_TIME_FOREVER);
		[context invalidate];

		if (success) {
			return 0;
		}
		return evalError ? (int)[evalError code] : -202;
	}
}
*/
import "C"
import (
	"context"
	"fmt"
	"unsafe"
)

// LAError codes we care about (see LAError.h).
const (
	laErrorAuthenticationFailed = -1
	laErrorUserCancel           = -2
	laErrorUserFallback         = -3
	laErrorSystemCancel         = -4
	laErrorPasscodeNotSet       = -5
	laErrorBiometryNotAvailable = -6
	laErrorBiometryNotEnrolled  = -7
	laErrorBiometryLockout      = -8
	laErrorAppCancel            = -9
	laErrorInvalidContext       = -10
	laErrorNotInteractive       = -1004
)

var laErrorMessages = map[int]string{
	laErrorAuthenticationFailed: "Authentication failed",
	laErrorUserCancel:           "Authentication canceled by user",
	laErrorUserFallback:         "User chose password fallback",
	laErrorSystemCancel:         "Authentication canceled by the system",
	laErrorPasscodeNotSet:       "Passcode is not set on this device",
	laErrorBiometryNotAvailable: "Biometry is not available on this device",
	laErrorBiometryNotEnrolled:  "No biometric identities are enrolled",
	laErrorBiometryLockout:      "Biometry is locked out, use the device passcode",
	laErrorAppCancel:            "Authentication canceled by the application",
	laErrorInvalidContext:       "Authentication context is no longer valid",
	laErrorNotInteractive:       "Authentication requires an interactive session",
}

const legacyFallbackTitle = "Use Password…"

func probeFlags() int {
	return int(C.localauth_probe())
}

func evaluate(combined bool, reason, cancelTitle string, setFallback bool, fallbackTitle string) int {
	cReason := C.CString(reason)
	defer C.free(unsafe.Pointer(cReason))
	cCancel := C.CString(cancelTitle)
	defer C.free(unsafe.Pointer(cCancel))
	cFallback := C.CString(fallbackTitle)
	defer C.free(unsafe.Pointer(cFallback))

	combinedFlag := C.int(0)
	if combined {
		combinedFlag = 1
	}
	fallbackFlag := C.int(0)
	if setFallback {
		fallbackFlag = 1
	}
	return int(C.localauth_present(combinedFlag, cReason, cCancel, fallbackFlag, cFallback))
}

// Present runs one LocalAuthentication ceremony. LAContext handles
// per-attempt retries internally (the prompt stays open on a mismatch), so
// this shim only ever emits a single terminal event.
func Present(ctx context.Context, req Request, report func(Event)) {
	if err := ctx.Err(); err != nil {
		report(Event{Kind: EventError, Message: "Authentication canceled before the prompt was shown"})
		return
	}

	combined := strategyFor(productVersion()) == strategyCombined && !req.DisableDeviceCredential

	var code int
	switch {
	case combined:
		// Modern path: one ceremony offering biometrics with the device
		// passcode as a built-in fallback. The custom cancel title is only
		// honored here.
		code = evaluate(true, req.Subtitle, req.CancelTitle, false, "")
	case req.DisableDeviceCredential:
		// Biometrics only; hide the password fallback button entirely.
		code = evaluate(false, req.Subtitle, "", true, "")
	default:
		// Legacy path: biometrics ceremony with an explicit password stage.
		// Tapping the fallback button ends the biometric evaluation with
		// LAErrorUserFallback, after which a second evaluation collects the
		// password. LocalAuthentication has no passcode-only policy, so the
		// second stage has to be the combined one; the user has already
		// declined biometrics, and entering the password there completes the
		// ceremony. Same fallback outcome as the modern path, different
		// combination semantics.
		code = evaluate(false, req.Subtitle, "", true, legacyFallbackTitle)
		if code == laErrorUserFallback {
			code = evaluate(true, req.Subtitle, "", false, "")
		}
	}

	if code == 0 {
		report(Event{Kind: EventSuccess})
		return
	}
	report(Event{Kind: EventError, Message: messageForCode(code)})
}

func messageForCode(code int) string {
	if msg, ok := laErrorMessages[code]; ok {
		return msg
	}
	return fmt.Sprintf("Authentication failed (code %d)", code)
}
