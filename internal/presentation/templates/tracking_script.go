// Package templates holds the parameterized client assets served to tracked
// pages. The tracking script is delivered as static cacheable text with two
// substitution points and runs on arbitrary third-party domains, so it must
// never throw into the hosting page and never depend on a response body.
package templates

// Placeholders substituted when the tracking script is served.
const (
	PlaceholderTrackingID    = "__TRACKING_ID__"
	PlaceholderAPIEndpoint   = "__API_ENDPOINT__"
	PlaceholderSessionIdleMs = "__SESSION_IDLE_MS__"
)

// TrackingScript is the embeddable collector runtime. It mirrors the Go
// collector in pkg/collector: anonymous session identity with a configurable
// idle expiry, fire-and-forget event transport, debounced scroll telemetry,
// and per-action trigger state machines with at-most-once display.
const TrackingScript = `(function() {
  'use strict';

  var config = {
    trackingId: '__TRACKING_ID__',
    apiEndpoint: '__API_ENDPOINT__/api/track',
    actionsEndpoint: '__API_ENDPOINT__/api/actions/active/__TRACKING_ID__',
    trackActionEndpoint: '__API_ENDPOINT__/api/track-action',
    sessionTimeout: __SESSION_IDLE_MS__
  };

  var SESSION_KEY = 'zf_session';
  var LAST_ACTIVITY_KEY = 'zf_last_activity';

  function generateId() {
    return Date.now().toString(36) + Math.random().toString(36).substring(2);
  }

  function getSelector(element) {
    if (element.id) return '#' + element.id;
    if (element.className && typeof element.className === 'string') {
      var classes = element.className.split(' ').filter(function(c) { return c; });
      if (classes.length > 0) return '.' + classes[0];
    }
    return element.tagName.toLowerCase();
  }

  function getDeviceInfo() {
    var ua = navigator.userAgent;
    var deviceType = 'desktop';
    if (/(tablet|ipad|playbook|silk)|(android(?!.*mobi))/i.test(ua)) {
      deviceType = 'tablet';
    } else if (/Mobile|Android|iP(hone|od)|IEMobile|BlackBerry|Kindle|Opera M(obi|ini)/.test(ua)) {
      deviceType = 'mobile';
    }
    return {
      deviceType: deviceType,
      screenWidth: window.screen.width,
      screenHeight: window.screen.height
    };
  }

  // Session identity: read-or-create with idle expiry. Safe to call from any
  // call site within a page load; storage failure falls back to an ephemeral
  // in-memory token scoped to this load.
  var ephemeralToken = null;

  function getOrCreateSession() {
    try {
      var now = Date.now();
      var sessionToken = localStorage.getItem(SESSION_KEY);
      var lastActivity = localStorage.getItem(LAST_ACTIVITY_KEY);

      if (lastActivity && now - parseInt(lastActivity, 10) > config.sessionTimeout) {
        sessionToken = null;
      }

      if (!sessionToken) {
        sessionToken = generateId();
        localStorage.setItem(SESSION_KEY, sessionToken);
        sendEvent('session_start', {
          sessionToken: sessionToken,
          deviceInfo: getDeviceInfo()
        });
      }

      localStorage.setItem(LAST_ACTIVITY_KEY, now.toString());
      return sessionToken;
    } catch (e) {
      if (!ephemeralToken) ephemeralToken = 'session_' + generateId();
      return ephemeralToken;
    }
  }

  // Best-effort one-way emit. No acknowledgment, no retry.
  function post(endpoint, payload) {
    var body = JSON.stringify(payload);
    if (navigator.sendBeacon) {
      navigator.sendBeacon(endpoint, body);
    } else {
      fetch(endpoint, {
        method: 'POST',
        headers: { 'Content-Type': 'application/json' },
        body: body,
        keepalive: true
      }).catch(function() {});
    }
  }

  function sendEvent(type, data) {
    var payload = {
      type: type,
      trackingId: config.trackingId,
      timestamp: new Date().toISOString()
    };
    for (var key in data) {
      if (data.hasOwnProperty(key)) payload[key] = data[key];
    }
    post(config.apiEndpoint, payload);
  }

  function trackPageView() {
    var sessionToken = getOrCreateSession();
    sendEvent('pageview', {
      url: window.location.href,
      referrer: document.referrer || null,
      sessionToken: sessionToken
    });
  }

  function trackClick(e) {
    var sessionToken = getOrCreateSession();
    var target = e.target || e.srcElement;
    sendEvent('click', {
      url: window.location.href,
      elementSelector: getSelector(target),
      elementText: target.innerText ? target.innerText.substring(0, 100) : null,
      xCoordinate: e.clientX,
      yCoordinate: e.clientY,
      sessionToken: sessionToken
    });
  }

  // Scroll telemetry: track the running maximum and collapse bursts into one
  // send after a second of quiescence.
  var maxScroll = 0;
  var scrollTimeout;

  function trackScroll() {
    var windowHeight = window.innerHeight || document.documentElement.clientHeight;
    var documentHeight = Math.max(
      document.body.scrollHeight, document.body.offsetHeight,
      document.documentElement.clientHeight,
      document.documentElement.scrollHeight, document.documentElement.offsetHeight
    );
    var scrollTop = window.pageYOffset || document.documentElement.scrollTop || document.body.scrollTop;

    var scrollPercent = Math.round((scrollTop / (documentHeight - windowHeight)) * 100);
    if (isNaN(scrollPercent)) scrollPercent = 0;
    if (scrollPercent > 100) scrollPercent = 100;

    if (scrollPercent > maxScroll) {
      maxScroll = scrollPercent;
      clearTimeout(scrollTimeout);
      scrollTimeout = setTimeout(function() {
        var sessionToken = getOrCreateSession();
        sendEvent('scroll', {
          url: window.location.href,
          scrollDepth: scrollPercent,
          maxScroll: maxScroll,
          sessionToken: sessionToken
        });
      }, 1000);
    }
  }

  // Engagement actions

  var activeActions = [];
  var displayedActions = {};
  var actionElements = {};

  function escapeHtml(text) {
    var div = document.createElement('div');
    div.textContent = text;
    return div.innerHTML;
  }

  function matchesUrlPattern(pattern, matchType) {
    var currentUrl = window.location.href;
    var pathname = window.location.pathname;

    switch (matchType) {
      case 'exact':
        return currentUrl === pattern || pathname === pattern;
      case 'startsWith':
        return currentUrl.indexOf(pattern) === 0 || pathname.indexOf(pattern) === 0;
      case 'regex':
        try {
          return new RegExp(pattern).test(currentUrl);
        } catch (e) {
          return false;
        }
      case 'contains':
      default:
        return currentUrl.indexOf(pattern) > -1 || pathname.indexOf(pattern) > -1;
    }
  }

  function shouldDisplayAction(action) {
    if (displayedActions[action.id]) return false;
    if (!action.urlPatterns || action.urlPatterns.length === 0) return true;
    for (var i = 0; i < action.urlPatterns.length; i++) {
      if (matchesUrlPattern(action.urlPatterns[i], action.urlMatchType)) return true;
    }
    return false;
  }

  function trackAction(actionId, type) {
    post(config.trackActionEndpoint, {
      actionId: actionId,
      trackingId: config.trackingId,
      sessionToken: getOrCreateSession(),
      type: type,
      url: window.location.href
    });
  }

  function closeAction(actionId) {
    var elements = actionElements[actionId];
    if (!elements) return;
    if (elements.overlay && elements.overlay.parentNode) {
      elements.overlay.parentNode.removeChild(elements.overlay);
    }
    if (elements.container && elements.container.parentNode) {
      elements.container.parentNode.removeChild(elements.container);
    }
    delete actionElements[actionId];
  }

  function getActionStyles(action) {
    var styling = action.styling || {};
    var css =
      'position: fixed; z-index: 999999; ' +
      'background: ' + (styling.backgroundColor || '#fff') + '; ' +
      'padding: ' + (styling.padding || '24px') + '; ' +
      'border-radius: ' + (styling.borderRadius || '8px') + '; ' +
      'box-shadow: 0 4px 20px rgba(0,0,0,0.15); ' +
      'font-family: ' + (styling.fontFamily || 'system-ui, sans-serif') + '; ' +
      'font-size: ' + (styling.fontSize || '16px') + '; ';

    switch (styling.position || 'center') {
      case 'top':
        css += 'top: 16px; left: 50%; transform: translateX(-50%); ';
        break;
      case 'bottom':
        css += 'bottom: 16px; left: 50%; transform: translateX(-50%); ';
        break;
      case 'top-right':
        css += 'top: 16px; right: 16px; ';
        break;
      case 'top-left':
        css += 'top: 16px; left: 16px; ';
        break;
      case 'bottom-right':
        css += 'bottom: 16px; right: 16px; ';
        break;
      case 'bottom-left':
        css += 'bottom: 16px; left: 16px; ';
        break;
      default:
        css += 'top: 50%; left: 50%; transform: translate(-50%, -50%); ';
    }

    css += 'width: ' + (styling.width || '400px') + '; max-width: calc(100vw - 32px); ';
    if (styling.height) css += 'height: ' + styling.height + '; ';
    return css;
  }

  function createActionElement(action) {
    var styling = action.styling || {};
    var content = action.content || {};

    var overlay = null;
    if (styling.overlay !== false) {
      overlay = document.createElement('div');
      overlay.style.cssText =
        'position: fixed; top: 0; left: 0; right: 0; bottom: 0; ' +
        'background: ' + (styling.overlayColor || 'rgba(0,0,0,0.5)') + '; z-index: 999998;';
      if (content.dismissable !== false) {
        overlay.onclick = function() {
          closeAction(action.id);
          trackAction(action.id, 'dismiss');
        };
      }
    }

    var container = document.createElement('div');
    container.setAttribute('data-zf-action', action.id);
    container.style.cssText = getActionStyles(action);

    var html = '';
    if (content.title) {
      html += '<h3 style="margin: 0 0 12px 0; font-size: 20px; font-weight: 600; color: ' +
        (styling.textColor || '#000') + ';">' + escapeHtml(content.title) + '</h3>';
    }
    if (content.message) {
      html += '<p style="margin: 0 0 16px 0; color: ' + (styling.textColor || '#000') +
        '; line-height: 1.5;">' + escapeHtml(content.message) + '</p>';
    }

    html += '<div style="display: flex; gap: 8px; justify-content: flex-end;">';
    if (content.dismissable !== false) {
      html += '<button data-zf-dismiss style="padding: 8px 16px; border: 1px solid #ccc; ' +
        'background: #fff; color: #333; border-radius: 4px; cursor: pointer; font-size: 14px;">Dismiss</button>';
    }
    if (content.ctaText && content.ctaUrl) {
      html += '<button data-zf-cta style="padding: 8px 16px; border: none; background: ' +
        (styling.buttonColor || '#000') + '; color: ' + (styling.buttonTextColor || '#fff') +
        '; border-radius: 4px; cursor: pointer; font-size: 14px; font-weight: 500;">' +
        escapeHtml(content.ctaText) + '</button>';
    }
    html += '</div>';
    container.innerHTML = html;

    var dismissBtn = container.querySelector('[data-zf-dismiss]');
    if (dismissBtn) {
      dismissBtn.onclick = function(e) {
        e.stopPropagation();
        closeAction(action.id);
        trackAction(action.id, 'dismiss');
      };
    }

    var ctaBtn = container.querySelector('[data-zf-cta]');
    if (ctaBtn) {
      ctaBtn.onclick = function(e) {
        e.stopPropagation();
        trackAction(action.id, 'click');
        if (content.ctaUrl) window.location.href = content.ctaUrl;
        closeAction(action.id);
      };
    }

    return { container: container, overlay: overlay };
  }

  function displayAction(action) {
    if (displayedActions[action.id]) return;

    var elements = createActionElement(action);
    actionElements[action.id] = elements;

    if (elements.overlay) document.body.appendChild(elements.overlay);
    document.body.appendChild(elements.container);

    displayedActions[action.id] = true;
    trackAction(action.id, 'impression');
  }

  function setupTimeTrigger(action) {
    var delayMs = (action.trigger && action.trigger.delayMs) || 3000;
    setTimeout(function() {
      if (shouldDisplayAction(action)) displayAction(action);
    }, delayMs);
  }

  function setupScrollTrigger(action) {
    var targetPercentage = (action.trigger && action.trigger.percentage) || 50;
    var triggered = false;

    var scrollHandler = function() {
      if (triggered) return;
      var scrollPercent = Math.round(
        (window.pageYOffset / (document.documentElement.scrollHeight - window.innerHeight)) * 100
      );
      if (scrollPercent >= targetPercentage && shouldDisplayAction(action)) {
        triggered = true;
        displayAction(action);
        window.removeEventListener('scroll', scrollHandler);
      }
    };
    window.addEventListener('scroll', scrollHandler, { passive: true });
  }

  function setupExitIntentTrigger(action) {
    var triggered = false;
    var sensitivity = (action.trigger && action.trigger.sensitivity) || 'medium';
    var threshold = sensitivity === 'low' ? 100 : sensitivity === 'high' ? 10 : 50;

    var exitHandler = function(e) {
      if (triggered) return;
      if (e.clientY <= threshold && shouldDisplayAction(action)) {
        triggered = true;
        displayAction(action);
        document.removeEventListener('mouseout', exitHandler);
      }
    };
    document.addEventListener('mouseout', exitHandler);
  }

  function initializeActions() {
    for (var i = 0; i < activeActions.length; i++) {
      var action = activeActions[i];
      switch (action.trigger && action.trigger.type) {
        case 'time':
          setupTimeTrigger(action);
          break;
        case 'scroll':
          setupScrollTrigger(action);
          break;
        case 'exit':
          setupExitIntentTrigger(action);
          break;
      }
    }
  }

  function fetchActions() {
    fetch(config.actionsEndpoint)
      .then(function(response) { return response.json(); })
      .then(function(data) {
        activeActions = data.actions || [];
        initializeActions();
      })
      .catch(function() {});
  }

  function init() {
    trackPageView();
    fetchActions();

    document.addEventListener('click', trackClick, true);
    window.addEventListener('scroll', trackScroll, { passive: true });
    document.addEventListener('visibilitychange', function() {
      if (document.hidden) {
        sendEvent('page_hide', { sessionToken: getOrCreateSession() });
      }
    });
  }

  if (document.readyState === 'complete' || document.readyState === 'interactive') {
    setTimeout(init, 1);
  } else {
    document.addEventListener('DOMContentLoaded', init);
  }
})();
`
