package shim

// runtimeScript is the fixed shim body. It runs inside an IIFE with a CFG
// object in scope (see Generate). Every feature is wrapped in try/catch and
// guarded by typeof checks so a hostile or minimal environment degrades a
// feature instead of killing the whole shim. ES5 only: target pages may
// polyfill or freeze newer builtins.
const runtimeScript = `
var w = (typeof window !== 'undefined' && window) ? window :
        (typeof globalThis !== 'undefined' ? globalThis : this);
var doc = (typeof document !== 'undefined' && document) ? document : null;
var hostParent = null;
try {
  if (w.parent && w.parent !== w && typeof w.parent.postMessage === 'function') {
    hostParent = w.parent;
  }
} catch (e) {}

function post(msg) {
  try {
    if (hostParent) { hostParent.postMessage(msg, '*'); }
  } catch (e) {}
}

var PASSTHROUGH = ['data:', 'blob:', 'javascript:', 'mailto:', 'tel:', 'about:'];

function isPassthrough(u) {
  if (u === undefined || u === null || u === '') { return true; }
  var s = String(u);
  if (s.charAt(0) === '#') { return true; }
  var l = s.toLowerCase();
  for (var i = 0; i < PASSTHROUGH.length; i++) {
    if (l.indexOf(PASSTHROUGH[i]) === 0) { return true; }
  }
  return false;
}

function resolveUrl(u) {
  if (isPassthrough(u)) { return u; }
  var s = String(u);
  var l = s.toLowerCase();
  if (s.indexOf('//') === 0) { return CFG.protocol + s; }
  if (l.indexOf('http://') === 0 || l.indexOf('https://') === 0) { return s; }
  if (s.charAt(0) === '/') { return CFG.baseOrigin + s; }

  var basePath = CFG.originalUrl.slice(CFG.baseOrigin.length);
  var cut = basePath.search(/[?#]/);
  if (cut >= 0) { basePath = basePath.slice(0, cut); }
  var dir = basePath.slice(0, basePath.lastIndexOf('/') + 1);
  if (dir === '') { dir = '/'; }

  var suffix = '';
  var qi = s.search(/[?#]/);
  var path = s;
  if (qi >= 0) { path = s.slice(0, qi); suffix = s.slice(qi); }

  var segs = (dir + path).split('/');
  var out = [];
  for (var i = 0; i < segs.length; i++) {
    var seg = segs[i];
    if (seg === '.' || seg === '') {
      if (i === segs.length - 1) { out.push(''); }
      continue;
    }
    if (seg === '..') {
      if (out.length > 0) { out.pop(); }
      continue;
    }
    out.push(seg);
  }
  return CFG.baseOrigin + '/' + out.join('/') + suffix;
}

function navigate(url, newTab) {
  post({ type: 'navigate', url: resolveUrl(url), newTab: !!newTab });
}

// Shadow location: window.location cannot be replaced cross-origin, so
// scripts that introspect their own address get this object instead.
function makeShadowLocation() {
  var href = CFG.originalUrl;
  var path = href.slice(CFG.baseOrigin.length);
  var search = '';
  var hash = '';
  var hi = path.indexOf('#');
  if (hi >= 0) { hash = path.slice(hi); path = path.slice(0, hi); }
  var qi = path.indexOf('?');
  if (qi >= 0) { search = path.slice(qi); path = path.slice(0, qi); }
  var hostname = CFG.hostname;
  var host = CFG.baseOrigin.slice(CFG.protocol.length + 2);
  return {
    href: href,
    protocol: CFG.protocol,
    host: host,
    hostname: hostname,
    port: host.indexOf(':') >= 0 ? host.slice(host.indexOf(':') + 1) : '',
    origin: CFG.baseOrigin,
    pathname: path === '' ? '/' : path,
    search: search,
    hash: hash,
    assign: function (u) { navigate(u, false); },
    replace: function (u) { navigate(u, false); },
    reload: function () { navigate(CFG.originalUrl, false); },
    toString: function () { return this.href; }
  };
}

var shadowLocation = makeShadowLocation();

function define(obj, name, desc) {
  try { Object.defineProperty(obj, name, desc); } catch (e) {}
}

// --- identity and document spoofing -------------------------------------

if (doc) {
  define(doc, 'URL', { get: function () { return CFG.originalUrl; }, configurable: true });
  define(doc, 'documentURI', { get: function () { return CFG.originalUrl; }, configurable: true });
  define(doc, 'domain', {
    get: function () { return CFG.hostname; },
    set: function () {},
    configurable: true
  });
  define(doc, 'referrer', { get: function () { return CFG.baseOrigin + '/'; }, configurable: true });
}
try { w.__location = shadowLocation; } catch (e) {}

// --- detection evasion ---------------------------------------------------

try {
  if (typeof navigator !== 'undefined' && navigator) {
    define(navigator, 'webdriver', { get: function () { return false; }, configurable: true });
    if (!navigator.languages || navigator.languages.length === 0) {
      define(navigator, 'languages', { get: function () { return ['en-US', 'en']; }, configurable: true });
    }
    if (!navigator.platform) {
      define(navigator, 'platform', { get: function () { return 'Win32'; }, configurable: true });
    }
    if (!navigator.hardwareConcurrency) {
      define(navigator, 'hardwareConcurrency', { get: function () { return 8; }, configurable: true });
    }
    if (!navigator.plugins || navigator.plugins.length === 0) {
      define(navigator, 'plugins', {
        get: function () { return [{ name: 'PDF Viewer' }, { name: 'Chrome PDF Viewer' }]; },
        configurable: true
      });
    }
    if (navigator.serviceWorker && navigator.serviceWorker.register) {
      // A page-registered worker would compete with the rewriting pipeline.
      navigator.serviceWorker.register = function () { return new Promise(function () {}); };
    }
  }
} catch (e) {}

// Frame self-detection: pages bail out when top !== self.
try {
  define(w, 'top', { get: function () { return w.self; }, configurable: true });
  define(w, 'frameElement', { get: function () { return null; }, configurable: true });
} catch (e) {}

// --- navigation virtualization -------------------------------------------

if (doc && typeof doc.addEventListener === 'function') {
  doc.addEventListener('click', function (ev) {
    try {
      var node = ev.target;
      while (node && (!node.tagName || node.tagName.toUpperCase() !== 'A')) {
        node = node.parentNode;
      }
      if (!node) { return; }
      var href = node.getAttribute ? node.getAttribute('href') : node.href;
      if (isPassthrough(href)) { return; }
      if (ev.preventDefault) { ev.preventDefault(); }
      var newTab = node.target === '_blank' || ev.ctrlKey || ev.metaKey;
      navigate(href, newTab);
    } catch (e) {}
  }, true);

  doc.addEventListener('submit', function (ev) {
    try {
      var form = ev.target;
      if (!form || !form.tagName || form.tagName.toUpperCase() !== 'FORM') { return; }
      if (ev.preventDefault) { ev.preventDefault(); }
      var action = (form.getAttribute && form.getAttribute('action')) || CFG.originalUrl;
      var method = (form.method || 'get').toLowerCase();
      var target = resolveUrl(action);
      if (method === 'get') {
        var pairs = [];
        var els = form.elements || [];
        for (var i = 0; i < els.length; i++) {
          var el = els[i];
          if (!el || !el.name || el.disabled) { continue; }
          if ((el.type === 'checkbox' || el.type === 'radio') && !el.checked) { continue; }
          pairs.push(encodeURIComponent(el.name) + '=' + encodeURIComponent(el.value === undefined ? '' : el.value));
        }
        var qs = pairs.join('&');
        if (qs !== '') {
          target += (target.indexOf('?') >= 0 ? '&' : '?') + qs;
        }
      }
      navigate(target, false);
    } catch (e) {}
  }, true);
}

try {
  var nativeOpen = w.open;
  w.open = function (url, name, features) {
    if (url !== undefined && url !== null && url !== '') {
      navigate(url, true);
      return null;
    }
    return nativeOpen ? nativeOpen.call(w, url, name, features) : null;
  };
} catch (e) {}

// --- history virtualization ----------------------------------------------

try {
  var hist = w.history;
  if (hist && typeof hist.pushState === 'function') {
    var nativePush = hist.pushState;
    var nativeReplace = hist.replaceState;
    hist.pushState = function (state, title, url) {
      if (url !== undefined && url !== null) {
        var abs = resolveUrl(String(url));
        shadowLocation.href = abs;
        post({ type: 'url-change', url: abs });
      }
      try { return nativePush.call(hist, state, title, null); } catch (e) { return undefined; }
    };
    hist.replaceState = function (state, title, url) {
      if (url !== undefined && url !== null) {
        var abs = resolveUrl(String(url));
        shadowLocation.href = abs;
        post({ type: 'url-change', url: abs });
      }
      try { return nativeReplace.call(hist, state, title, null); } catch (e) { return undefined; }
    };
  }
  if (typeof w.addEventListener === 'function') {
    w.addEventListener('popstate', function () {
      post({ type: 'url-change', url: shadowLocation.href });
    });
  }
} catch (e) {}

// --- subresource interception ----------------------------------------------

try {
  if (typeof w.fetch === 'function') {
    var nativeFetch = w.fetch;
    w.fetch = function (input, init) {
      try {
        if (typeof input === 'string') {
          input = resolveUrl(input);
        } else if (input && typeof input.url === 'string') {
          input = resolveUrl(input.url);
        }
      } catch (e) {}
      return nativeFetch.call(w, input, init);
    };
  }
} catch (e) {}

try {
  if (typeof XMLHttpRequest !== 'undefined' && XMLHttpRequest.prototype && XMLHttpRequest.prototype.open) {
    var nativeXhrOpen = XMLHttpRequest.prototype.open;
    XMLHttpRequest.prototype.open = function (method, url) {
      var args = Array.prototype.slice.call(arguments);
      if (url !== undefined && url !== null) {
        args[1] = resolveUrl(String(url));
      }
      return nativeXhrOpen.apply(this, args);
    };
  }
} catch (e) {}

var URL_ATTRS = { src: 1, href: 1, poster: 1, action: 1, data: 1 };
var URL_TAGS = { SCRIPT: 1, IMG: 1, LINK: 1, IFRAME: 1, VIDEO: 1, AUDIO: 1, SOURCE: 1, EMBED: 1, OBJECT: 1, TRACK: 1 };

try {
  if (typeof Element !== 'undefined' && Element.prototype && Element.prototype.setAttribute) {
    var nativeSetAttribute = Element.prototype.setAttribute;
    Element.prototype.setAttribute = function (name, value) {
      try {
        if (URL_ATTRS[String(name).toLowerCase()] === 1 &&
            this.tagName && URL_TAGS[this.tagName.toUpperCase()] === 1) {
          value = resolveUrl(String(value));
        }
      } catch (e) {}
      return nativeSetAttribute.call(this, name, value);
    };
  }
} catch (e) {}

function wrapCtor(name, argIndex) {
  try {
    var Native = w[name];
    if (typeof Native !== 'function') { return; }
    var Wrapped = function () {
      var args = Array.prototype.slice.call(arguments);
      if (args.length > argIndex && typeof args[argIndex] === 'string') {
        args[argIndex] = resolveUrl(args[argIndex]);
      }
      switch (args.length) {
        case 0: return new Native();
        case 1: return new Native(args[0]);
        case 2: return new Native(args[0], args[1]);
        default: return new Native(args[0], args[1], args[2]);
      }
    };
    Wrapped.prototype = Native.prototype;
    w[name] = Wrapped;
  } catch (e) {}
}

wrapCtor('Worker', 0);
wrapCtor('SharedWorker', 0);
wrapCtor('WebSocket', 0);
wrapCtor('Audio', 0);
try {
  if (typeof w.Image === 'function') {
    var NativeImage = w.Image;
    w.Image = function (width, height) {
      var img = new NativeImage(width, height);
      try {
        var imgSet = img.setAttribute;
        if (imgSet) {
          img.setAttribute = function (name, value) {
            if (String(name).toLowerCase() === 'src') { value = resolveUrl(String(value)); }
            return imgSet.call(img, name, value);
          };
        }
      } catch (e) {}
      hookUrlProp(img, 'src');
      return img;
    };
    w.Image.prototype = NativeImage.prototype;
  }
} catch (e) {}

// Property writes like el.src = '/x' bypass setAttribute, so elements made
// through createElement get their URL property shadowed per instance.
var URL_PROPS = {
  SCRIPT: 'src', IMG: 'src', IFRAME: 'src', AUDIO: 'src', VIDEO: 'src',
  SOURCE: 'src', EMBED: 'src', TRACK: 'src', LINK: 'href', OBJECT: 'data'
};

function hookUrlProp(el, prop) {
  try {
    var current = el[prop];
    define(el, prop, {
      get: function () { return current; },
      set: function (value) {
        current = resolveUrl(String(value));
        try {
          if (typeof el.setAttribute === 'function') { el.setAttribute(prop, current); }
        } catch (e) {}
      },
      configurable: true
    });
  } catch (e) {}
}

try {
  if (doc && typeof doc.createElement === 'function') {
    var nativeCreateElement = doc.createElement;
    doc.createElement = function (tag) {
      var el = nativeCreateElement.apply(doc, arguments);
      try {
        var prop = URL_PROPS[String(tag).toUpperCase()];
        if (el && prop) { hookUrlProp(el, prop); }
      } catch (e) {}
      return el;
    };
  }
} catch (e) {}

// --- title and cookie bridging ---------------------------------------------

try {
  if (doc && typeof MutationObserver === 'function') {
    var titleEl = doc.querySelector ? doc.querySelector('title') : null;
    if (titleEl) {
      new MutationObserver(function () {
        post({ type: 'title-change', title: doc.title });
      }).observe(titleEl, { childList: true, characterData: true, subtree: true });
    }
  }
  if (doc && doc.title) {
    post({ type: 'title-change', title: doc.title });
  }
} catch (e) {}

try {
  if (doc && typeof Document !== 'undefined' && Document.prototype) {
    var cookieDesc = Object.getOwnPropertyDescriptor(Document.prototype, 'cookie');
    if (cookieDesc && cookieDesc.set) {
      define(doc, 'cookie', {
        get: function () { return cookieDesc.get.call(doc); },
        set: function (value) {
          // Scope attributes cannot survive under the proxy origin.
          var cleaned = String(value)
            .replace(/;\s*domain=[^;]*/gi, '')
            .replace(/;\s*secure/gi, '')
            .replace(/;\s*samesite=[^;]*/gi, '');
          cookieDesc.set.call(doc, cleaned);
        },
        configurable: true
      });
    }
  }
} catch (e) {}
`
